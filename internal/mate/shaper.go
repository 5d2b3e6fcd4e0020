package mate

import (
	"github.com/gochess/cha/internal/chess"
	"github.com/gochess/cha/internal/geom"
	"github.com/gochess/cha/internal/knightdist"
)

// setTarget picks the square that movedPiece should be steered toward so
// the search explores mating nets first: a corner on winner's relative 8th
// rank for the loser's king and for the winner's other pieces, the square
// beside that corner on the same rank for the loser's other pieces, and the
// 6th-rank square on the corner's diagonal for the winner's king. The
// corner's color depends on which side actually holds a same-colored
// bishop, so the target is at least plausible for the pieces on the board.
func setTarget(pos *chess.Position, movedPiece chess.PieceType, winner chess.Color) chess.Square {
	var darkCorner = pos.PiecesOfType(winner, chess.Bishop)&chess.DarkSquares != 0 ||
		(pos.Count(winner, chess.Bishop) == 0 && pos.PiecesOfType(winner.Opposite(), chess.Bishop)&^chess.DarkSquares != 0)

	var king = movedPiece == chess.King
	var isWinnersTurn = pos.SideToMove == winner

	var target chess.Square
	switch {
	case isWinnersTurn && king:
		target = chess.F6
	case isWinnersTurn && !king:
		target = chess.H8
	case !isWinnersTurn && king:
		target = chess.H8
	default:
		target = chess.G8
	}

	if !darkCorner {
		target = flipFile(target)
	}
	if winner == chess.Black {
		target = flipFile(chess.FlipSquare(target))
	}
	return target
}

func flipFile(sq chess.Square) chess.Square { return sq ^ 7 }

// goingToSquare reports whether m moves p strictly closer to s, under the
// distance metric appropriate to p. Only kings, knights and (optionally)
// bishops have a meaningful notion of "closer" here; everything else always
// answers false, since the reward heuristic only ever needs to bias slow
// pieces.
func goingToSquare(m chess.Move, s chess.Square, p chess.PieceType, checkBishops bool) bool {
	switch {
	case p == chess.King || (checkBishops && p == chess.Bishop):
		return chess.SquareDistance(m.To(), s) < chess.SquareDistance(m.From(), s)
	case p == chess.Knight:
		return knightdist.Distance(m.To(), s) < knightdist.Distance(m.From(), s)
	default:
		return false
	}
}

// needLoserPromotion reports whether winner's remaining material cannot
// deliver mate without loser first promoting a pawn into fresh material
// (e.g. lone knight vs. lone king, or same-colored bishops vs. a king with
// no opposite-colored bishop or knight).
func needLoserPromotion(pos *chess.Position, winner chess.Color) bool {
	var loser = winner.Opposite()
	var minorPieces = pos.PiecesByType(chess.Knight) | pos.PiecesByType(chess.Bishop)

	if chess.PopCount(pos.Pieces(winner)) == 2 && pos.Count(winner, chess.Knight) == 1 &&
		chess.PopCount(pos.Pieces(loser)&(minorPieces|pos.PiecesByType(chess.Rook))) == 0 {
		return true
	}

	var bishopsColor = ^chess.DarkSquares
	if chess.DarkSquares&pos.PiecesOfType(winner, chess.Bishop) != 0 {
		bishopsColor = chess.DarkSquares
	}
	if chess.PopCount(pos.Pieces(winner)) == pos.Count(winner, chess.Bishop)+1 &&
		chess.PopCount(^bishopsColor&pos.PiecesByType(chess.Bishop)) == 0 &&
		chess.PopCount(pos.Pieces(loser)&pos.PiecesByType(chess.Knight)) == 0 {
		return true
	}

	return false
}

// impossibleToWin statically rules out a win, without moving a single
// piece. Never a false positive: if it returns true, no move sequence
// mates. It calls needLoserPromotion only once loser is known to have no
// pawns, which is exactly the condition under which that heuristic itself
// cannot be a false positive either.
func impossibleToWin(pos *chess.Position, winner chess.Color) bool {
	if chess.PopCount(pos.Pieces(winner)) == 1 {
		return true
	}
	return pos.Count(winner.Opposite(), chess.Pawn) == 0 && needLoserPromotion(pos, winner)
}

// trivialProgress advances the position mechanically for up to cap plies
// whenever the side to move has exactly one legal move, so that a forced
// sequence leading into the interesting part of the position doesn't eat
// into the search's depth or node budget. It stops early on any position
// with more than one legal move, on checkmate, or on stalemate. Every
// forced move is checked for repetition against every earlier position in
// the chain; three occurrences of the same position means both sides can
// be forced into it and neither can escape, so the position is unwinnable
// regardless of material. When s is non-nil, each forced move is also
// recorded into s's principal variation and node counter; a nil s (the
// per-move static probe run from FullAnalysis's one-ply lookahead) chases
// the same forced chain without touching any search state.
func trivialProgress(pos *chess.Position, s *Search, cap int) (result *chess.Position, forcedRepetition bool) {
	var cur = pos
	var history = []*chess.Position{cur}
	for i := 0; i < cap; i++ {
		var legal = chess.GenerateLegalMoves(cur)
		if len(legal) != 1 {
			break
		}
		var next, ok = cur.MakeMove(legal[0])
		if !ok {
			break
		}
		if s != nil {
			s.RecordForcedMove(legal[0])
		}
		cur = &next
		var occurrences = 1
		for _, prior := range history {
			if cur.IsRepetition(prior) {
				occurrences++
			}
		}
		history = append(history, cur)
		if occurrences >= 3 {
			return cur, true
		}
	}
	return cur, false
}

// blockedHeuristicApplies reports whether the position is dominated by a
// frozen pawn chain, the condition under which find_mate's semi-blocked
// reward/punish branch (rather than the corner-targeting one) takes over.
func blockedHeuristicApplies(pos *chess.Position) bool {
	var krq = pos.PiecesByType(chess.Knight) | pos.PiecesByType(chess.Rook) | pos.PiecesByType(chess.Queen)
	return krq == 0 && geom.NbBlockedPawns(pos) >= 4 && !geom.HasLonelyPawns(pos)
}
