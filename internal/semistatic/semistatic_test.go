package semistatic

import (
	"testing"

	"github.com/gochess/cha/internal/chess"
)

func TestIsUnwinnableLoneKings(t *testing.T) {
	var pos, err = chess.PositionFromFEN("8/8/4k3/8/8/3K4/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var sys = NewSystem()
	if !IsUnwinnable(sys, &pos, chess.White) {
		t.Error("two lone kings: white should be unwinnable")
	}
	if !IsUnwinnable(sys, &pos, chess.Black) {
		t.Error("two lone kings: black should be unwinnable")
	}
}

func TestIsUnwinnableKingBishopVsKing(t *testing.T) {
	var pos, err = chess.PositionFromFEN("8/8/4k3/8/8/3K4/8/6B1 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var sys = NewSystem()
	if !IsUnwinnable(sys, &pos, chess.White) {
		t.Error("king and bishop vs. lone king: white should be unwinnable")
	}
}

func TestIsUnwinnableFalseWithQueen(t *testing.T) {
	var pos, err = chess.PositionFromFEN("8/8/4k3/8/8/3K4/8/3Q4 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var sys = NewSystem()
	if IsUnwinnable(sys, &pos, chess.White) {
		t.Error("king and queen vs. lone king: white should not be unwinnable")
	}
}

func TestSaturateTwiceKeepsTrueVariables(t *testing.T) {
	var pos, err = chess.PositionFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	var sys = NewSystem()
	sys.Saturate(&pos)
	var afterFirstPass = sys.variables
	sys.Saturate(&pos)
	for i := range afterFirstPass {
		if afterFirstPass[i] && !sys.variables[i] {
			t.Fatalf("variable %d flipped from true to false across a second saturation of the same position", i)
			break
		}
	}
}
