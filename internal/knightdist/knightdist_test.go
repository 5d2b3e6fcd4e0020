package knightdist

import (
	"testing"

	"github.com/gochess/cha/internal/chess"
)

func TestDistanceKnownCases(t *testing.T) {
	var tests = []struct {
		from, to chess.Square
		want     int
	}{
		{chess.A1, chess.A1, 0},
		{chess.A1, chess.B3, 1},
		{chess.A1, chess.H8, 6},
		{chess.A1, chess.B2, 4}, // corner exception
		{chess.A1, chess.C2, 1},
		{chess.A8, chess.H1, 6},
	}
	for _, tc := range tests {
		var got = Distance(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	for x := chess.Square(0); x < 64; x += 7 {
		for y := chess.Square(0); y < 64; y += 11 {
			if Distance(x, y) != Distance(y, x) {
				t.Errorf("Distance(%v,%v) != Distance(%v,%v)", x, y, y, x)
			}
		}
	}
}
