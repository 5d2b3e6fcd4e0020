package mate

import (
	"testing"

	"github.com/gochess/cha/internal/chess"
	"github.com/gochess/cha/internal/semistatic"
)

func analyze(t *testing.T, fen string, winner chess.Color) Result {
	t.Helper()
	var pos, err = chess.PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("PositionFromFEN(%q): %v", fen, err)
	}
	var s Search
	s.SetLimit(2000000)
	s.SetWinner(winner)
	var sys = semistatic.NewSystem()
	var result, _ = FullAnalysis(&pos, &s, sys)
	return result
}

func TestFullAnalysisLoneKingsUnwinnable(t *testing.T) {
	if got := analyze(t, "8/8/4k3/8/8/3K4/8/8 w - - 0 1", chess.White); got != Unwinnable {
		t.Errorf("lone kings, white to helpmate: got %v, want Unwinnable", got)
	}
}

func TestFullAnalysisQueenVsKingWinnable(t *testing.T) {
	if got := analyze(t, "8/8/4k3/8/8/3K4/8/3Q4 b - - 0 1", chess.White); got != Winnable {
		t.Errorf("king and queen vs. lone king, black to move: got %v, want Winnable", got)
	}
}

func TestFullAnalysisKingKnightVsKingUnwinnable(t *testing.T) {
	if got := analyze(t, "8/8/4k3/8/8/3K4/8/6N1 w - - 0 1", chess.White); got != Unwinnable {
		t.Errorf("king and knight vs. lone king: got %v, want Unwinnable", got)
	}
}

func TestSearchResultString(t *testing.T) {
	var tests = map[Result]string{Undetermined: "undetermined", Winnable: "winnable", Unwinnable: "unwinnable"}
	for r, want := range tests {
		if got := r.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", r, got, want)
		}
	}
}

func TestStageString(t *testing.T) {
	var tests = map[Stage]string{StagePreStatic: "pre-static", StageStatic: "static", StagePostStatic: "post-static"}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", st, got, want)
		}
	}
}

func TestTranspositionTableProbeStore(t *testing.T) {
	var pos, err = chess.PositionFromFEN("8/8/4k3/8/8/3K4/8/3Q4 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var tt = NewTranspositionTable(1)
	if _, found := tt.Probe(&pos); found {
		t.Fatal("Probe on an empty table should miss")
	}
	tt.Store(&pos, 5)
	if depth, found := tt.Probe(&pos); !found || depth != 5 {
		t.Errorf("Probe after Store = (%d, %v), want (5, true)", depth, found)
	}
	tt.Clear()
	if _, found := tt.Probe(&pos); found {
		t.Error("Probe after Clear should miss")
	}
}

func TestIsDeadPosition(t *testing.T) {
	var pos, err = chess.PositionFromFEN("8/8/4k3/8/8/3K4/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var sys = semistatic.NewSystem()
	if !IsDeadPosition(&pos, sys) {
		t.Error("two lone kings should be a dead position")
	}
}
