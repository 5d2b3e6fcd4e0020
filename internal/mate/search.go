// Package mate implements the depth-bounded helpmate tree search: the
// second, complete-but-slow layer of the decision procedure, used once the
// semi-static constraint system fails to settle a position on its own.
package mate

import "github.com/gochess/cha/internal/chess"

// Result is the outcome of an analysis run.
type Result int

const (
	Undetermined Result = iota
	Winnable
	Unwinnable
)

func (r Result) String() string {
	switch r {
	case Winnable:
		return "winnable"
	case Unwinnable:
		return "unwinnable"
	default:
		return "undetermined"
	}
}

// maxVariationLength bounds how much of a checkmating line gets recorded;
// searches deeper than this still succeed, they just report a truncated line.
const maxVariationLength = 2000

// Search carries the mutable state of one helpmate search run: the winner
// being sought, the depth cursor, node-count limits and the line of moves
// found so far. Reused across iterative-deepening rounds via Set.
type Search struct {
	checkmateSequence [maxVariationLength]chess.Move
	forcedPrefix      []chess.Move
	winner            chess.Color

	depth          int
	maxSearchDepth int
	mateLen        int
	result         Result
	interrupted    bool

	counter      uint64
	totalCounter uint64
	localLimit   uint64
	globalLimit  uint64
}

// Init resets the cumulative node counter. Call once per position, before
// the first Set.
func (s *Search) Init() {
	s.totalCounter = 0
	s.counter = 0
	s.forcedPrefix = nil
}

// Set starts a fresh search round to maxDepth, with a node budget of
// maxDepth*localNodesLimit for this round alone.
func (s *Search) Set(maxDepth int, localNodesLimit uint64) {
	s.depth = 0
	s.maxSearchDepth = maxDepth
	s.mateLen = 0
	s.result = Undetermined
	s.interrupted = false
	s.localLimit = localNodesLimit
	s.totalCounter += s.counter
	s.counter = 0
}

func (s *Search) SetLimit(nodesLimit uint64) { s.globalLimit = nodesLimit }
func (s *Search) SetWinner(c chess.Color)    { s.winner = c }
func (s *Search) IntendedWinner() chess.Color { return s.winner }
func (s *Search) ActualDepth() int           { return s.depth }
func (s *Search) MaxDepth() int              { return s.maxSearchDepth }
func (s *Search) Limit() uint64              { return s.globalLimit }
func (s *Search) Result() Result             { return s.result }

func (s *Search) AnnotateMove(m chess.Move) {
	if s.depth < maxVariationLength {
		s.checkmateSequence[s.depth] = m
	}
}

func (s *Search) Step() {
	s.counter++
	s.depth++
}

// RecordForcedMove appends m to the forced-progress prefix played ahead of
// the search proper (see trivialProgress) and bumps the node counter. It
// leaves the depth cursor untouched: that cursor is relative to the root of
// each iterative-deepening round, which Set resets independently of how
// much forced progress preceded it.
func (s *Search) RecordForcedMove(m chess.Move) {
	s.forcedPrefix = append(s.forcedPrefix, m)
	s.counter++
}

func (s *Search) UndoStep() { s.depth-- }

func (s *Search) SetWinnable() {
	s.result = Winnable
	s.mateLen = s.depth
}

func (s *Search) SetUnwinnable() { s.result = Unwinnable }
func (s *Search) Interrupt()     { s.interrupted = true }
func (s *Search) IsInterrupted() bool { return s.interrupted }

func (s *Search) IsLocalLimitReached() bool {
	return s.counter > uint64(s.maxSearchDepth)*s.localLimit
}

func (s *Search) IsLimitReached() bool { return s.totalCounter > s.globalLimit }

// Sequence returns the checkmating line found by the most recent successful
// search, truncated to maxVariationLength moves.
func (s *Search) Sequence() []chess.Move {
	var n = s.mateLen
	if n > maxVariationLength {
		n = maxVariationLength
	}
	var result = append([]chess.Move(nil), s.forcedPrefix...)
	return append(result, s.checkmateSequence[:n]...)
}

// Nodes returns the total node count across every round run since Init.
func (s *Search) Nodes() uint64 { return s.totalCounter + s.counter }
