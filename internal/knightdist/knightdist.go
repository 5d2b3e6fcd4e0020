// Package knightdist precomputes the minimum number of knight moves between
// every pair of squares on an otherwise empty board.
package knightdist

import "github.com/gochess/cha/internal/chess"

const tableSize = 4096

var table [tableSize]int

func index(x, y chess.Square) int {
	return int(x) | (int(y) << 6)
}

// Distance returns the minimum knight-move distance between x and y.
func Distance(x, y chess.Square) int {
	return table[index(x, y)]
}

// closedForm computes the knight distance directly from the file/rank deltas
// between two squares, following the piecewise rule: sort the deltas as
// (a,b) = (min, max), special-case the corner, then branch on parity.
func closedForm(x, y chess.Square) int {
	if x == y {
		return 0
	}
	var df = chess.FileDistance(x, y)
	var dr = chess.RankDistance(x, y)
	var a, b = df, dr
	if a > b {
		a, b = b, a
	}

	if a == 1 && b == 1 && (chess.IsCorner(x) || chess.IsCorner(y)) {
		return 4
	}

	if a%2 == b%2 {
		switch {
		case a == 0 && b == 0:
			return 0
		case (a == 0 && b == 2) || (a == 0 && b == 4) || (a == 2 && b == 4) ||
			(a == 1 && b == 1) || (a == 1 && b == 3) || (a == 3 && b == 3):
			return 2
		case a == 7 && b == 7:
			return 6
		default:
			return 4
		}
	}

	switch {
	case b == 7:
		return 5
	case a == 1 && b == 2:
		return 1
	case a == 5 && b == 6:
		return 5
	default:
		return 3
	}
}

func init() {
	for x := chess.Square(0); x < 64; x++ {
		for y := chess.Square(0); y < 64; y++ {
			table[index(x, y)] = closedForm(x, y)
		}
	}
}
