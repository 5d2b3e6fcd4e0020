package mate

import (
	"github.com/gochess/cha/internal/chess"
	"github.com/gochess/cha/internal/geom"
	"github.com/gochess/cha/internal/semistatic"
)

// SearchMode chooses whether find_mate consults the transposition table.
// Quick rounds are shallow enough that TT bookkeeping only adds overhead;
// full rounds are exactly where a refutation cache pays for itself.
type SearchMode int

const (
	ModeQuick SearchMode = iota
	ModeFull
)

// SearchTarget chooses between "any mate" (reward/punish depth shaping
// biases the search toward corner mating nets first) and "shortest mate"
// (plain uniform iterative deepening, since shaping would bias away from
// the truly shortest line).
type SearchTarget int

const (
	TargetAny SearchTarget = iota
	TargetShortest
)

// Stage records which pipeline step of FullAnalysis settled a verdict,
// matching the pre-static/static/post-static breakdown test.cpp's harness
// reports.
type Stage int

const (
	StagePreStatic Stage = iota
	StageStatic
	StagePostStatic
)

func (st Stage) String() string {
	switch st {
	case StageStatic:
		return "static"
	case StagePostStatic:
		return "post-static"
	default:
		return "pre-static"
	}
}

type variationType int

const (
	variationNormal variationType = iota
	variationReward
	variationPunish
)

// restrictMoves filters legal down to the moves also present in allowed,
// preserving legal's move-generation order. A nil allowed leaves legal
// untouched, since only FullAnalysis's step-8 root call ever restricts the
// move set.
func restrictMoves(legal, allowed []chess.Move) []chess.Move {
	if allowed == nil {
		return legal
	}
	var result = make([]chess.Move, 0, len(legal))
	for _, m := range legal {
		for _, a := range allowed {
			if m == a {
				result = append(result, m)
				break
			}
		}
	}
	return result
}

// findMate performs the depth-bounded helpmate search: it returns true as
// soon as it finds a line ending in checkmate delivered by s's intended
// winner, or false once every line from pos has been exhausted or the
// search budget runs out. rootMoves, when non-nil, restricts which moves
// are tried at depth 0 — the surviving branches left by FullAnalysis's
// one-ply lookahead; every deeper ply searches its full legal move list.
func findMate(pos *chess.Position, s *Search, tt *TranspositionTable, mode SearchMode, target SearchTarget, depth int, pastProgress, wasSemiBlocked bool, rootMoves []chess.Move) bool {
	var winner = s.IntendedWinner()
	var loser = winner.Opposite()
	var movesLeft = s.MaxDepth() - depth

	if mode == ModeFull {
		if probedDepth, found := tt.Probe(pos); found && probedDepth >= movesLeft {
			return false
		}
	}

	if impossibleToWin(pos, winner) {
		return false
	}

	var legal = chess.GenerateLegalMoves(pos)
	if len(legal) == 0 && pos.IsCheck() && pos.SideToMove == loser {
		s.SetWinnable()
		return true
	}
	if depth == 0 {
		legal = restrictMoves(legal, rootMoves)
	}

	if depth >= s.MaxDepth() || s.IsLocalLimitReached() {
		s.Interrupt()
		return false
	}

	if mode == ModeFull {
		tt.Store(pos, movesLeft)
	}

	var needLoserProm = needLoserPromotion(pos, winner)
	var isWinnersTurn = pos.SideToMove == winner

	var unblockingTarget, semiBlocked = geom.SemiBlockedTarget(pos)

	for _, m := range legal {
		var variation = variationNormal
		var movedPiece = m.MovingPiece()

		if target == TargetAny {
			var targetSq = setTarget(pos, movedPiece, winner)

			if isWinnersTurn {
				if pos.IsAdvancedPawnPush(m) || pos.IsCapture(m) || goingToSquare(m, targetSq, movedPiece, false) {
					variation = variationReward
				}
			} else {
				if needLoserProm {
					var promoted = m.PromotionType()
					var heavyProm = promoted == chess.Queen || promoted == chess.Rook
					if movedPiece == chess.Pawn && !heavyProm {
						variation = variationReward
					} else {
						variation = variationPunish
					}
				}
				if goingToSquare(m, targetSq, movedPiece, false) {
					variation = variationReward
				}
				if pos.IsCapture(m) {
					variation = variationPunish
				}
			}
		}

		// The semi-blocked heuristic runs for both targets, unlike the
		// corner-targeting block above.
		if blockedHeuristicApplies(pos) {
			if semiBlocked || wasSemiBlocked {
				switch {
				case pos.IsCapture(m) && isWinnersTurn:
					variation = variationReward
				case movedPiece == chess.King:
					variation = variationNormal
					if semiBlocked && goingToSquare(m, unblockingTarget, movedPiece, false) {
						variation = variationReward
					}
				default:
					variation = variationPunish
				}
			} else {
				var targetSq = setTarget(pos, movedPiece, winner)
				if goingToSquare(m, targetSq, movedPiece, true) && pos.Count(loser, chess.Bishop) > 1 {
					variation = variationReward
				}
			}
		}

		var child, ok = pos.MakeMove(m)
		if !ok {
			continue
		}

		var newDepth = depth + 1

		if target == TargetAny {
			// Both of these guards reset variation to NORMAL unconditionally:
			// they exist to suppress rewards while loser still has a queen,
			// or once the search has run very deep, regardless of what
			// triggered the reward in the first place.
			if !isWinnersTurn && child.Count(loser, chess.Queen) > 0 {
				variation = variationNormal
			}
			if s.ActualDepth() > 300 {
				variation = variationNormal
			}

			switch variation {
			case variationReward:
				newDepth--
			case variationPunish:
				newDepth = min(s.MaxDepth(), newDepth+2)
			default:
				if pastProgress {
					newDepth--
				}
			}
		}

		s.AnnotateMove(m)
		s.Step()
		var checkmate = findMate(&child, s, tt, mode, target, newDepth,
			variation == variationReward, semiBlocked || wasSemiBlocked, nil)
		s.UndoStep()

		if checkmate {
			return true
		}
	}

	return false
}

// dynamicallyUnwinnable is quick_analysis's cheap fixed-depth helper: it
// proves unwinnability by exhaustively showing every line of at most depth
// plies avoids checkmate, without any of find_mate's reward shaping or TT.
func dynamicallyUnwinnable(pos *chess.Position, depth int, winner chess.Color, s *Search) bool {
	if impossibleToWin(pos, winner) {
		return true
	}

	var legal = chess.GenerateLegalMoves(pos)
	if len(legal) == 0 && pos.IsCheck() {
		if pos.SideToMove == winner {
			return true
		}
		s.SetWinnable()
		return false
	}

	if depth <= 0 {
		return false
	}

	for _, m := range legal {
		var child, ok = pos.MakeMove(m)
		if !ok {
			continue
		}
		s.AnnotateMove(m)
		s.Step()
		var unwinnable = dynamicallyUnwinnable(&child, depth-1, winner, s)
		s.UndoStep()
		if !unwinnable {
			return false
		}
	}
	return true
}

// survivingBranches implements the one-ply lookahead: for each of pos's
// legal moves it plays the move, applies trivial-progress normalization to
// the resulting position, and statically tests that position for
// unwinnability. It returns the subset of moves whose reply position the
// static check could not prove unwinnable — the branches iterative
// deepening still needs to search. A forced repetition in a reply counts
// as proving that reply unwinnable, same as the static check.
func survivingBranches(sys *semistatic.System, pos *chess.Position, legal []chess.Move, winner chess.Color) []chess.Move {
	var surviving []chess.Move
	for _, m := range legal {
		var child, ok = pos.MakeMove(m)
		if !ok {
			continue
		}
		var childProgressed, forcedRepetition = trivialProgress(&child, nil, 100)
		if forcedRepetition {
			continue
		}
		if semistatic.IsUnwinnable(sys, childProgressed, winner) {
			continue
		}
		surviving = append(surviving, m)
	}
	return surviving
}

// FullAnalysis runs the complete decision procedure: trivial-progress
// normalization, a shallow reward-shaped probe, a semi-static check, a
// one-ply lookahead that narrows the position down to its surviving
// branches, and finally iterative-deepening full search restricted to
// those branches. It settles as soon as any stage produces a definite
// answer.
func FullAnalysis(pos *chess.Position, s *Search, sys *semistatic.System) (Result, Stage) {
	s.Init()
	s.Set(0, 0)

	var progressed, forcedRepetition = trivialProgress(pos, s, 100)
	if forcedRepetition {
		s.SetUnwinnable()
		return s.Result(), StagePreStatic
	}

	var legal = chess.GenerateLegalMoves(progressed)
	if len(legal) == 0 {
		if progressed.IsCheck() && progressed.SideToMove == s.IntendedWinner().Opposite() {
			s.SetWinnable()
		} else {
			s.SetUnwinnable()
		}
		return s.Result(), StagePreStatic
	}

	if impossibleToWin(progressed, s.IntendedWinner()) {
		s.SetUnwinnable()
		return s.Result(), StagePreStatic
	}

	s.Set(2, 5000)
	var mate = findMate(progressed, s, nil, ModeQuick, TargetAny, 0, false, false, nil)
	if !s.IsInterrupted() && !mate {
		s.SetUnwinnable()
	}
	if s.Result() != Undetermined {
		return s.Result(), StagePreStatic
	}

	if semistatic.IsUnwinnable(sys, progressed, s.IntendedWinner()) {
		s.SetUnwinnable()
		return s.Result(), StageStatic
	}

	var survivors = survivingBranches(sys, progressed, legal, s.IntendedWinner())
	if len(survivors) == 0 {
		s.SetUnwinnable()
		return s.Result(), StageStatic
	}

	var tt = NewTranspositionTable(64)
	for maxDepth := 2; maxDepth <= 1000; maxDepth++ {
		s.Set(maxDepth, 10000)
		mate = findMate(progressed, s, tt, ModeFull, TargetAny, 0, false, false, survivors)
		if !s.IsInterrupted() && !mate {
			s.SetUnwinnable()
		}
		if s.Result() != Undetermined || s.IsLimitReached() {
			break
		}
	}

	return s.Result(), StagePostStatic
}

// QuickAnalysis trades completeness for speed: a fixed-depth dynamic search
// plus, for pawn-and-bishop-only positions with a frozen pawn chain, a
// semi-static check. It never runs iterative deepening.
func QuickAnalysis(pos *chess.Position, s *Search, sys *semistatic.System) Result {
	s.Init()
	s.Set(0, 0)

	var krq = pos.PiecesByType(chess.Knight) | pos.PiecesByType(chess.Rook) | pos.PiecesByType(chess.Queen)
	var onlyPawnsAndBishops = krq == 0
	var almostOnlyPawnsAndBishops = chess.PopCount(krq) <= 1

	var progressed, forcedRepetition = trivialProgress(pos, s, 100)
	if forcedRepetition {
		s.SetUnwinnable()
		return s.Result()
	}
	var unwinnable = dynamicallyUnwinnable(progressed, 7, s.IntendedWinner(), s)

	var blockedCandidate = geom.NbBlockedPawns(progressed) >= 1 && !geom.HasLonelyPawns(progressed)

	if blockedCandidate && !unwinnable && onlyPawnsAndBishops {
		if semistatic.IsUnwinnable(sys, progressed, s.IntendedWinner()) {
			unwinnable = true
		}
	}

	if blockedCandidate && !unwinnable && almostOnlyPawnsAndBishops &&
		(progressed.IsCheck() || progressed.PiecesByType(chess.Knight) != 0) {
		if semistatic.IsUnwinnableAfterOneMove(sys, progressed, s.IntendedWinner()) {
			unwinnable = true
		}
	}

	if unwinnable {
		s.SetUnwinnable()
	}

	return s.Result()
}

// FindShortest runs iterative deepening with the shortest-mate target,
// returning as soon as a mate is found at the current depth or the
// position is proven unwinnable. A mate by the intended winner falls on an
// odd ply when the winner is to move and on an even ply otherwise, so only
// depths of that parity are tried, two plies apart.
func FindShortest(pos *chess.Position, s *Search, sys *semistatic.System) Result {
	s.Init()

	if semistatic.IsUnwinnable(sys, pos, s.IntendedWinner()) {
		s.SetUnwinnable()
		return s.Result()
	}

	var startDepth = 2
	if pos.SideToMove == s.IntendedWinner() {
		startDepth = 1
	}
	var tt = NewTranspositionTable(64)
	for depth := startDepth; depth <= 1000; depth += 2 {
		s.Set(depth, s.Limit())
		var mate = findMate(pos, s, tt, ModeFull, TargetShortest, 0, false, false, nil)
		if !s.IsInterrupted() && !mate {
			s.SetUnwinnable()
		}
		if s.Result() != Undetermined || s.IsLimitReached() {
			break
		}
	}

	return s.Result()
}

// IsDeadPosition reports whether neither side can possibly deliver
// checkmate, using QuickAnalysis for both colors. It is a convenience
// wrapper, not part of the core decision procedure.
func IsDeadPosition(pos *chess.Position, sys *semistatic.System) bool {
	var s = &Search{}
	s.SetLimit(5000000)

	s.SetWinner(chess.White)
	if QuickAnalysis(pos, s, sys) != Unwinnable {
		return false
	}

	s.SetWinner(chess.Black)
	return QuickAnalysis(pos, s, sys) == Unwinnable
}
