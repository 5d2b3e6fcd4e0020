package geom

import (
	"testing"

	"github.com/gochess/cha/internal/chess"
)

func TestPredecessorsKing(t *testing.T) {
	var preds = Predecessors(chess.King, chess.White, chess.D4)
	if len(preds) != 8 {
		t.Fatalf("king in the center should have 8 predecessor squares, got %d", len(preds))
	}
}

func TestPredecessorsCornerDoesNotWrapFiles(t *testing.T) {
	var preds = Predecessors(chess.Rook, chess.White, chess.A1)
	for _, sq := range preds {
		if chess.FileDistance(chess.A1, sq) > 2 {
			t.Errorf("predecessor %v wraps around the board edge", sq)
		}
	}
}

func TestPredecessorsPawnDirectionDependsOnColor(t *testing.T) {
	var white = Predecessors(chess.Pawn, chess.White, chess.D4)
	var black = Predecessors(chess.Pawn, chess.Black, chess.D4)
	for _, sq := range white {
		if chess.Rank(sq) >= chess.Rank(chess.D4) {
			t.Errorf("white pawn predecessor %v should be on a lower rank than D4", sq)
		}
	}
	for _, sq := range black {
		if chess.Rank(sq) <= chess.Rank(chess.D4) {
			t.Errorf("black pawn predecessor %v should be on a higher rank than D4", sq)
		}
	}
}

func TestHasLonelyPawns(t *testing.T) {
	var same, err = chess.PositionFromFEN("4k3/8/8/8/8/8/PPPPPPPP/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	if !HasLonelyPawns(&same) {
		t.Error("white pawns with no matching black pawns on those files should be reported as lonely")
	}

	var matched, err2 = chess.PositionFromFEN("4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1")
	if err2 != nil {
		t.Fatalf("PositionFromFEN: %v", err2)
	}
	if HasLonelyPawns(&matched) {
		t.Error("matching pawn files on both sides should not be lonely")
	}
}

func TestNbBlockedPawns(t *testing.T) {
	var pos, err = chess.PositionFromFEN("4k3/8/8/3p4/3P4/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("PositionFromFEN: %v", err)
	}
	if got := NbBlockedPawns(&pos); got != 2 {
		t.Errorf("NbBlockedPawns = %d, want 2 (both pawns of an opposed pair)", got)
	}
}
