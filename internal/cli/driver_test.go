package cli

import (
	"strings"
	"testing"

	"github.com/gochess/cha/internal/chess"
	"github.com/gochess/cha/internal/mate"
)

func TestAnalyzeLoneKingsUnwinnable(t *testing.T) {
	var pos, err = chess.PositionFromFEN("8/8/4k3/8/8/3K4/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var d = NewDriver()
	var r = d.Analyze(&pos, chess.White)
	if r.Result != mate.Unwinnable {
		t.Errorf("Analyze(white) = %v, want Unwinnable", r.Result)
	}
}

func TestAnalyzeKingCaptureAvailableIsDefensivelyUnwinnable(t *testing.T) {
	// Black's king sits adjacent to a white rook that could capture it on
	// this move: an unreachable position that must be classified defensively
	// rather than handed to move generation.
	var pos, err = chess.PositionFromFEN("4k3/8/8/8/8/8/8/4R2K w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var d = NewDriver()
	var r = d.Analyze(&pos, chess.White)
	if r.Result != mate.Unwinnable {
		t.Errorf("Analyze on a king-capture-available position = %v, want Unwinnable", r.Result)
	}
}

func TestFormatResultWinnable(t *testing.T) {
	var r = AnalyzeResult{Result: mate.Winnable, Nodes: 42, Sequence: nil}
	var out = FormatResult(r)
	if !strings.HasPrefix(out, "winnable") {
		t.Errorf("FormatResult(Winnable) = %q, want prefix %q", out, "winnable")
	}
	if !strings.Contains(out, "nodes 42") {
		t.Errorf("FormatResult(Winnable) = %q, want to contain node count", out)
	}
}

func TestFormatResultUnwinnable(t *testing.T) {
	var out = FormatResult(AnalyzeResult{Result: mate.Unwinnable, Nodes: 7})
	if !strings.HasPrefix(out, "unwinnable") {
		t.Errorf("FormatResult(Unwinnable) = %q, want prefix %q", out, "unwinnable")
	}
}

func TestFormatResultCompactHasNoNewlines(t *testing.T) {
	var out = FormatResultCompact(AnalyzeResult{Result: mate.Winnable, Nodes: 1})
	if strings.Contains(out, "\n") {
		t.Errorf("FormatResultCompact(%q) contains a newline", out)
	}
}

func TestFormatAdjudication(t *testing.T) {
	var win = AnalyzeResult{Result: mate.Winnable}
	var lose = AnalyzeResult{Result: mate.Unwinnable}
	var undetermined = AnalyzeResult{Result: mate.Undetermined}

	if got := FormatAdjudication(win, lose); got != "1-0" {
		t.Errorf("FormatAdjudication(win, lose) = %q, want 1-0", got)
	}
	if got := FormatAdjudication(lose, win); got != "0-1" {
		t.Errorf("FormatAdjudication(lose, win) = %q, want 0-1", got)
	}
	if got := FormatAdjudication(lose, lose); got != "1/2-1/2" {
		t.Errorf("FormatAdjudication(lose, lose) = %q, want 1/2-1/2", got)
	}
	if got := FormatAdjudication(win, undetermined); got != "*" {
		t.Errorf("FormatAdjudication(win, undetermined) = %q, want *", got)
	}
}

func TestRunLineHandlesQuitAndMalformedFEN(t *testing.T) {
	var d = NewDriver()
	var sb strings.Builder
	if d.RunLine("quit", &sb) {
		t.Error("RunLine(\"quit\") should return false")
	}
	if !d.RunLine("not a fen", &sb) {
		t.Error("RunLine on malformed input should return true and keep going")
	}
	if !strings.Contains(sb.String(), "error") {
		t.Errorf("expected an error report for malformed FEN, got %q", sb.String())
	}
}

func TestParseBatchLine(t *testing.T) {
	var bl, ok = parseBatchLine(1, "WB 8/8/4k3/8/8/3K4/8/1Q6 w - - 0 1")
	if !ok {
		t.Fatal("expected a valid batch line to parse")
	}
	if bl.expected != "WB" {
		t.Errorf("expected = %q, want WB", bl.expected)
	}
	if _, ok := parseBatchLine(2, "# a comment"); ok {
		t.Error("comment lines should not parse")
	}
	if _, ok := parseBatchLine(3, ""); ok {
		t.Error("blank lines should not parse")
	}
}
