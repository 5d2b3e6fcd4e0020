// Package semistatic implements the semi-static constraint system: a
// Boolean saturation over piece-movement variables that soundly
// over-approximates reachability without enumerating moves, and the
// unwinnability predicate built on top of it.
package semistatic

import (
	"github.com/gochess/cha/internal/chess"
	"github.com/gochess/cha/internal/geom"
)

const (
	nMoveVars   = 49152 // 2 * 6 * 64 * 64 (color * piece_type * from_sq * to_sq)
	nPromVars   = 128   // 2 * 64
	nClearVars  = 128
	nReachVars  = 128
	nCaptureVars = 128

	nEqs  = nMoveVars + nPromVars
	nVars = nMoveVars + 4*128
)

// System holds the immutable equations table and the per-saturation
// variable vector. One System is built once (via NewSystem) and its
// Saturate method is called fresh for every position; there is no
// cross-position state, unlike the C++ source's function-local singleton.
type System struct {
	equations [nEqs][8]int
	variables [nVars]bool
}

func pieceIndex(p chess.PieceType) int { return int(p) - 1 }

func colorBit(c chess.Color) int {
	if c == chess.Black {
		return 1
	}
	return 0
}

// Index computes the flat Movement-variable index for (piece, color, from, to).
func Index(p chess.PieceType, c chess.Color, source, target chess.Square) int {
	return pieceIndex(p)*(1<<13) | (colorBit(c) << 12) | (int(source) << 6) | int(target)
}

func colorSquareIndex(c chess.Color, s chess.Square) int {
	return colorBit(c)<<6 | int(s)
}

func clearIndex(c chess.Color, s chess.Square) int    { return nMoveVars + nPromVars + colorSquareIndex(c, s) }
func reachIndex(c chess.Color, s chess.Square) int {
	return nMoveVars + nPromVars + nClearVars + colorSquareIndex(c, s)
}
func captureIndex(c chess.Color, s chess.Square) int {
	return nMoveVars + nPromVars + nClearVars + nReachVars + colorSquareIndex(c, s)
}

// NewSystem builds the equations table. Expensive; call once at startup.
func NewSystem() *System {
	var sys = &System{}
	for p := chess.Pawn; p <= chess.King; p++ {
		for _, c := range [2]chess.Color{chess.White, chess.Black} {
			for s := chess.Square(0); s < 64; s++ {
				for t := chess.Square(0); t < 64; t++ {
					var i = Index(p, c, s, t)
					var pre = geom.Predecessors(p, c, t)
					for j := 0; j < 8; j++ {
						if j >= len(pre) {
							sys.equations[i][j] = -1
						} else {
							sys.equations[i][j] = Index(p, c, s, pre[j])
						}
					}
				}
			}
		}
	}
	return sys
}

// Saturate zeros and repopulates the variable vector for pos, running the
// fixed-point iteration described in the package doc. Monotone: once true,
// a variable is never cleared again within one call.
func (sys *System) Saturate(pos *chess.Position) {
	for j := 0; j < nMoveVars; j++ {
		sys.variables[j] = false
	}
	for j := 0; j < 4*128; j++ {
		sys.variables[nMoveVars+j] = false
	}

	var occupied [64]chess.Square
	var n = 0

	for s := chess.Square(0); s < 64; s++ {
		var p = pos.PieceOn(s)
		if p == chess.Empty {
			sys.variables[clearIndex(chess.White, s)] = true
			sys.variables[clearIndex(chess.Black, s)] = true
			continue
		}
		var _, c = pos.GetPieceTypeAndSide(s)
		sys.variables[clearIndex(c.Opposite(), s)] = true
		sys.variables[Index(p, c, s, s)] = true
		occupied[n] = s
		n++
	}

	var change = true
	for change {
		change = false

		for k := 0; k < n; k++ {
			var source = occupied[k]
			var p, c = pos.GetPieceTypeAndSide(source)

			// Clear update.
			for aux := chess.Square(0); aux < 64; aux++ {
				if source == aux {
					continue
				}
				var auxPiece = pos.PieceOn(aux)
				var canClear = sys.variables[Index(p, c, source, aux)]
				if !canClear && auxPiece != chess.Empty {
					var _, auxColor = pos.GetPieceTypeAndSide(aux)
					if auxColor != c && sys.variables[Index(auxPiece, auxColor, aux, source)] {
						canClear = true
					}
				}
				if canClear && !sys.variables[clearIndex(c, source)] {
					change = true
					sys.variables[clearIndex(c, source)] = true
					break
				}
			}

			// Reach / Capture update.
			for target := chess.Square(0); target < 64; target++ {
				if !sys.variables[Index(p, c, source, target)] {
					continue
				}
				if p != chess.King && !sys.variables[reachIndex(c, target)] {
					change = true
					sys.variables[reachIndex(c, target)] = true
				}
				if p != chess.Pawn && !sys.variables[captureIndex(c, target)] {
					change = true
					sys.variables[captureIndex(c, target)] = true
				}
			}

			// Movement update.
			for target := chess.Square(0); target < 64; target++ {
				if !sys.variables[clearIndex(c, target)] {
					continue
				}

				if p == chess.King {
					var attackers = pos.AttackersTo(target) & pos.Pieces(c.Opposite())
					var targetAttacked = false
					for aux := chess.Square(0); aux < 64; aux++ {
						if attackers&chess.SquareBB(aux) != 0 && !sys.variables[clearIndex(c.Opposite(), aux)] {
							targetAttacked = true
							break
						}
					}
					if targetAttacked {
						continue
					}
				}

				var i = Index(p, c, source, target)
				if sys.variables[i] {
					continue
				}

				for j := 0; j < 8; j++ {
					var v = sys.equations[i][j]
					if v < 0 {
						break
					}
					if !sys.variables[v] {
						continue
					}

					if p == chess.Pawn {
						if j == 0 {
							if !sys.variables[clearIndex(c.Opposite(), target)] {
								continue
							}
							var tpiece = pos.PieceOn(target)
							if tpiece == chess.Pawn && chess.File(source) == chess.File(target) {
								var _, tcolor = pos.GetPieceTypeAndSide(target)
								if tcolor != c && sys.isConfronting(pos, p, c, source, target) {
									continue
								}
							}
						}
						if j > 0 && !sys.variables[reachIndex(c.Opposite(), target)] {
							continue
						}
						if j > 0 {
							sys.variables[captureIndex(c, target)] = true
						}
					}

					change = true
					sys.variables[i] = true
					break
				}
			}

			// Pawn promotion collapse: once any promotion-rank square is
			// reachable, the pawn is modeled as universally mobile.
			if p == chess.Pawn {
				var promRank = chess.A8
				if c == chess.Black {
					promRank = chess.A1
				}
				for file := 0; file < 8; file++ {
					if sys.variables[Index(p, c, source, promRank+chess.Square(file))] {
						for j := 0; j < 64; j++ {
							var i = Index(p, c, source, chess.Square(j))
							if !sys.variables[i] {
								change = true
								sys.variables[i] = true
							}
						}
						break
					}
				}
			}
		}
	}
}

// isConfronting reports whether the enemy pawn directly ahead on the same
// file cannot itself escape and cannot be captured en route, meaning the
// pushing pawn's path is genuinely dead (not merely blocked for now).
func (sys *System) isConfronting(pos *chess.Position, p chess.PieceType, c chess.Color, source, target chess.Square) bool {
	for aux := chess.Square(0); aux < 64; aux++ {
		if chess.File(source) != chess.File(aux) {
			if sys.variables[Index(p, c, source, aux)] || sys.variables[Index(chess.Pawn, c.Opposite(), target, aux)] {
				return false
			}
		} else if (chess.Rank(source) < chess.Rank(aux) && chess.Rank(aux) <= chess.Rank(target)) ||
			(chess.Rank(source) > chess.Rank(aux) && chess.Rank(aux) >= chess.Rank(target)) {
			if sys.variables[captureIndex(c, aux)] {
				return false
			}
		}
	}
	return true
}

// KingRegion returns the set of squares the saturated system believes c's
// king could potentially reach.
func (sys *System) KingRegion(pos *chess.Position, c chess.Color) chess.Bitboard {
	var region chess.Bitboard
	var s = pos.KingSquare(c)
	for t := chess.Square(0); t < 64; t++ {
		if sys.variables[Index(chess.King, c, s, t)] {
			region |= chess.SquareBB(t)
		}
	}
	return region
}

// Visitors returns the squares holding a c-colored piece that can reach some
// square within region, per the saturated Movement variables. Pawns whose
// promotion-collapse sentinel (Move(p,c,s,A1)) is false are excluded, since
// an un-collapsed pawn's movement set is otherwise too narrow to trust here.
func (sys *System) Visitors(pos *chess.Position, region chess.Bitboard, c chess.Color) chess.Bitboard {
	var visitors chess.Bitboard
	for s := chess.Square(0); s < 64; s++ {
		var p = pos.PieceOn(s)
		if p == chess.Empty {
			continue
		}
		if p == chess.Pawn && !sys.variables[Index(p, c, s, chess.A1)] {
			continue
		}
		var _, color = pos.GetPieceTypeAndSide(s)
		if color != c {
			continue
		}
		for t := chess.Square(0); t < 64; t++ {
			if region&chess.SquareBB(t) != 0 && sys.variables[Index(p, c, s, t)] {
				visitors |= chess.SquareBB(s)
				break
			}
		}
	}
	return visitors
}

// IsUnwinnable evaluates the unwinnability predicate on an already-saturated
// system (see spec §4.3). Sound: a true answer means no legal-move sequence
// from pos ends in checkmate delivered by intendedWinner.
func (sys *System) IsUnwinnable(pos *chess.Position, intendedWinner chess.Color) bool {
	if geom.HasLonelyPawns(pos) {
		return false
	}

	var loser = intendedWinner.Opposite()
	var loserKingRegion = sys.KingRegion(pos, loser)
	var visitors = sys.Visitors(pos, loserKingRegion, intendedWinner) &^ pos.PiecesOfType(intendedWinner, chess.King)

	if visitors == 0 {
		return true
	}

	if visitors&chess.DarkSquares != 0 && visitors&^chess.DarkSquares != 0 {
		return false
	}

	for s := chess.Square(0); s < 64; s++ {
		if visitors&chess.SquareBB(s) != 0 && pos.PieceOn(s) != chess.Bishop {
			return false
		}
	}

	var visitorsSquareColor = ^chess.DarkSquares
	if visitors&chess.DarkSquares != 0 {
		visitorsSquareColor = chess.DarkSquares
	}

	for s := chess.Square(0); s < 64; s++ {
		var matingBishops = sys.Visitors(pos, chess.SquareBB(s), intendedWinner) &^ pos.PiecesOfType(intendedWinner, chess.King)
		if matingBishops == 0 || loserKingRegion&chess.SquareBB(s) == 0 {
			continue
		}

		var escapingSquares, checkingSquares chess.Bitboard
		for t := chess.Square(0); t < 64; t++ {
			if chess.SquareDistance(s, t) == 1 && loserKingRegion&chess.SquareBB(t) != 0 {
				if visitorsSquareColor&chess.SquareBB(t) == 0 {
					escapingSquares |= chess.SquareBB(t)
				} else {
					checkingSquares |= chess.SquareBB(t)
				}
			}
		}

		var activeWinnersKing = pos.PiecesOfType(intendedWinner, chess.King) &
			sys.Visitors(pos, geom.Neighbours(s), intendedWinner) != 0

		var twoDiagonals = checkingSquares&((checkingSquares>>2)|(checkingSquares>>16)) != 0

		if twoDiagonals && chess.PopCount(matingBishops) < 2 && !activeWinnersKing {
			continue
		}

		var unblockable = false
		for e := chess.Square(0); e < 64; e++ {
			if escapingSquares&chess.SquareBB(e) == 0 {
				continue
			}
			var blockersAt = sys.Visitors(pos, chess.SquareBB(e), loser) &^ pos.PiecesByType(chess.King)
			if blockersAt == 0 {
				unblockable = true
				break
			}
		}
		if unblockable && !activeWinnersKing {
			continue
		}

		var blockers = sys.Visitors(pos, escapingSquares, loser) &^ pos.PiecesByType(chess.King)
		var blockersCnt = 0
		if activeWinnersKing {
			blockersCnt = 1
		}
		blockersCnt += chess.PopCount(blockers)

		if chess.PopCount(escapingSquares) <= blockersCnt {
			return false
		}
	}

	return true
}

// IsUnwinnable is the top-level entry: it handles the terminal (checkmate /
// stalemate) case and the en-passant escape hatch before delegating to
// Saturate + the predicate above.
func IsUnwinnable(sys *System, pos *chess.Position, intendedWinner chess.Color) bool {
	var legal = chess.GenerateLegalMoves(pos)
	if len(legal) == 0 {
		return !pos.IsCheck() || pos.SideToMove == intendedWinner
	}
	for _, m := range legal {
		if m.Kind() == chess.EnPassant {
			return false
		}
	}
	sys.Saturate(pos)
	return sys.IsUnwinnable(pos, intendedWinner)
}

// IsUnwinnableAfterOneMove reports whether every legal reply leads to a
// semi-statically unwinnable position.
func IsUnwinnableAfterOneMove(sys *System, pos *chess.Position, intendedWinner chess.Color) bool {
	var legal = chess.GenerateLegalMoves(pos)
	if len(legal) == 0 {
		return !pos.IsCheck() || pos.SideToMove == intendedWinner
	}
	for _, m := range legal {
		var child, ok = pos.MakeMove(m)
		if !ok {
			continue
		}
		if !IsUnwinnable(sys, &child, intendedWinner) {
			return false
		}
	}
	return true
}
