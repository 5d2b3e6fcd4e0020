// Package geom provides the geometric primitives the semi-static system and
// the heuristic shaper both build on: per-piece predecessor squares, king
// neighborhoods, and pawn-structure predicates.
package geom

import "github.com/gochess/cha/internal/chess"

const none = 128 // outside the board, mirrors the source's sentinel increment

var pawnIncs = [8]int{-8, -7, -9, none, none, none, none, none}
var knightIncs = [8]int{17, 15, 10, 6, -6, -10, -15, -17}
var bishopIncs = [8]int{9, 7, -7, -9, none, none, none, none}
var rookIncs = [8]int{8, 1, -1, -8, none, none, none, none}
var queenIncs = [8]int{9, 8, 7, 1, -1, -7, -8, -9}
var kingIncs = [8]int{9, 8, 7, 1, -1, -7, -8, -9}

func incrementsFor(pt chess.PieceType) [8]int {
	switch pt {
	case chess.Pawn:
		return pawnIncs
	case chess.Knight:
		return knightIncs
	case chess.Bishop:
		return bishopIncs
	case chess.Rook:
		return rookIncs
	case chess.Queen:
		return queenIncs
	case chess.King:
		return kingIncs
	}
	return [8]int{none, none, none, none, none, none, none, none}
}

func overflow(source, target int) bool {
	var sf, tf = source % 8, target % 8
	var d = sf - tf
	if d < 0 {
		d = -d
	}
	return d > 2 || target < 0 || target > 63
}

// Predecessors returns the squares from which a piece of type pt and color c
// could have moved, in one move, into sq. Direction only matters for pawns;
// it is applied uniformly because every other piece's increment set is
// symmetric under negation.
func Predecessors(pt chess.PieceType, c chess.Color, sq chess.Square) []chess.Square {
	var direction = 1
	if c == chess.Black {
		direction = -1
	}
	var incs = incrementsFor(pt)
	var result []chess.Square
	for _, inc := range incs {
		if inc == none {
			continue
		}
		var prev = int(sq) + direction*inc
		if overflow(int(sq), prev) {
			continue
		}
		result = append(result, chess.Square(prev))
	}
	return result
}

// Neighbours returns the bitboard of king-adjacent squares around sq.
func Neighbours(sq chess.Square) chess.Bitboard {
	var result chess.Bitboard
	for _, prev := range Predecessors(chess.King, chess.White, sq) {
		result |= chess.SquareBB(prev)
	}
	return result
}

// HasLonelyPawns reports whether the set of files occupied by white pawns
// (excluding rank 7) differs from the set of files occupied by black pawns
// (excluding rank 2) — a signal that pawn tension can still resolve into
// captures.
func HasLonelyPawns(pos *chess.Position) bool {
	var whiteOcc, blackOcc int
	for sq := chess.Square(0); sq < 64; sq++ {
		if pos.Pawns&pos.White&chess.SquareBB(sq) != 0 && sq < chess.A7 {
			whiteOcc |= 1 << chess.File(sq)
		}
		if pos.Pawns&pos.Black&chess.SquareBB(sq) != 0 && sq > chess.H2 {
			blackOcc |= 1 << chess.File(sq)
		}
	}
	return whiteOcc != blackOcc
}

// NbBlockedPawns counts pawns frozen by direct file opposition: a pawn with
// an enemy pawn immediately ahead of it and no diagonal capture available.
// Both pawns in an opposed pair are counted, since each is individually
// unable to advance.
func NbBlockedPawns(pos *chess.Position) int {
	var count = 0
	var occ = pos.White | pos.Black
	for fromBB := pos.Pawns & pos.White; fromBB != 0; fromBB &= fromBB - 1 {
		var sq = chess.FirstOne(fromBB)
		if chess.Rank(sq) == chess.Rank8 {
			continue
		}
		var ahead = sq + 8
		if occ&chess.SquareBB(ahead) == 0 || pos.Black&chess.SquareBB(ahead) == 0 {
			continue
		}
		if pos.PieceOn(ahead) != chess.Pawn {
			continue
		}
		if chess.AllWhitePawnAttacks(chess.SquareBB(sq))&pos.Black == 0 {
			count++
		}
	}
	for fromBB := pos.Pawns & pos.Black; fromBB != 0; fromBB &= fromBB - 1 {
		var sq = chess.FirstOne(fromBB)
		if chess.Rank(sq) == chess.Rank1 {
			continue
		}
		var ahead = sq - 8
		if occ&chess.SquareBB(ahead) == 0 || pos.White&chess.SquareBB(ahead) == 0 {
			continue
		}
		if pos.PieceOn(ahead) != chess.Pawn {
			continue
		}
		if chess.AllBlackPawnAttacks(chess.SquareBB(sq))&pos.White == 0 {
			count++
		}
	}
	return count
}

// SemiBlockedTarget picks a square a king should head toward to break a
// frozen pawn chain: among every pair of pawns standing directly one ahead
// of the other on a file, it returns the upper square of the pair nearest
// the side to move's king. It reports false only when no pawn has another
// pawn directly ahead; it does not check whether the returned square is
// the only one that matters. This predicate never
// affects soundness: it only biases search depth (see the reward/punish
// block in findMate), so an imprecise answer merely costs search
// efficiency, never correctness.
func SemiBlockedTarget(pos *chess.Position) (chess.Square, bool) {
	var mover = pos.KingSquare(pos.SideToMove)
	var best = chess.SquareNone
	var bestDist = 1 << 30
	for fromBB := pos.Pawns; fromBB != 0; fromBB &= fromBB - 1 {
		var sq = chess.FirstOne(fromBB)
		var side = chess.Color(pos.White&chess.SquareBB(sq) != 0)
		var ahead = sq + 8
		if side == chess.Black {
			ahead = sq - 8
		}
		if ahead < 0 || ahead > 63 {
			continue
		}
		var opp = pos.PieceOn(ahead)
		if opp != chess.Pawn {
			continue
		}
		var breakSquare = ahead
		if side == chess.Black {
			breakSquare = sq
		}
		if breakSquare < 0 || breakSquare > 63 {
			continue
		}
		var d = chess.SquareDistance(mover, breakSquare)
		if d < bestDist {
			bestDist = d
			best = breakSquare
		}
	}
	if best == chess.SquareNone {
		return chess.SquareNone, false
	}
	return best, true
}
