package mate

import "github.com/gochess/cha/internal/chess"

type ttEntry struct {
	key   uint64
	depth int
	used  bool
}

// TranspositionTable records, for each position visited during a full
// search round, the remaining depth budget it was explored at. A position
// re-encountered with an equal or shallower remaining budget was already
// proven mate-free from here and can be skipped, mirroring the always-
// replace table in engine.TranspositionTable but storing depth instead of
// score/bound, since find_mate only ever needs a refutation cache.
type TranspositionTable struct {
	items []ttEntry
}

// NewTranspositionTable allocates a table sized for roughly megabytes of
// entries.
func NewTranspositionTable(megabytes int) *TranspositionTable {
	const entrySize = 24
	var count = 1024 * 1024 * megabytes / entrySize
	if count < 1 {
		count = 1
	}
	return &TranspositionTable{items: make([]ttEntry, count)}
}

// Probe reports the remaining-depth budget pos was last explored at, if any.
func (tt *TranspositionTable) Probe(pos *chess.Position) (depth int, found bool) {
	var index = pos.Key % uint64(len(tt.items))
	var e = &tt.items[index]
	if e.used && e.key == pos.Key {
		return e.depth, true
	}
	return 0, false
}

// Store records that pos was explored to movesLeft with no mate found.
func (tt *TranspositionTable) Store(pos *chess.Position, movesLeft int) {
	var index = pos.Key % uint64(len(tt.items))
	tt.items[index] = ttEntry{key: pos.Key, depth: movesLeft, used: true}
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.items {
		tt.items[i] = ttEntry{}
	}
}
