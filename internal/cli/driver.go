// Package cli wires the chess, semistatic and mate packages into the
// command-line surface: a line-oriented interactive driver and a
// concurrent batch-test driver, in the spirit of shell.UciProtocol and
// shell.RunEpdTest.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gochess/cha/internal/chess"
	"github.com/gochess/cha/internal/mate"
	"github.com/gochess/cha/internal/semistatic"
)

// Mode selects which analysis pipeline the Driver runs per query.
type Mode int

const (
	ModeFull Mode = iota
	ModeQuick
)

// Driver holds everything a single-threaded query needs: the semi-static
// system (expensive to build, built once) and a scratch Search reused
// across queries.
type Driver struct {
	sys    *semistatic.System
	search mate.Search
	Mode   Mode
	Limit  uint64
	Target mate.SearchTarget

	// SuppressWinnable, when set, drops output for positions the
	// interactive driver finds winnable (the -u flag).
	SuppressWinnable bool
	// TimeoutForm, when set, makes RunLine print a PGN-style adjudication
	// string (analyzing both colors) instead of a per-winner analysis line.
	TimeoutForm bool
	// Logger, when non-nil, receives per-position stage-transition and
	// timing traces (the -v flag). Nil disables tracing entirely.
	Logger *log.Logger
}

// NewDriver builds a Driver, including the semi-static equations table.
func NewDriver() *Driver {
	return &Driver{sys: semistatic.NewSystem(), Limit: 10000000}
}

// AnalyzeResult is one color's outcome for a position.
type AnalyzeResult struct {
	Winner   chess.Color
	Result   mate.Result
	Stage    mate.Stage
	HasStage bool
	Nodes    uint64
	Sequence []chess.Move
	Elapsed  time.Duration
}

// Analyze runs the configured pipeline once for winner on pos. A position
// with the side to move already in check and able to capture the enemy
// king on its next move is not a reachable chess position; it is
// defensively classified Unwinnable rather than fed to the search.
func (d *Driver) Analyze(pos *chess.Position, winner chess.Color) AnalyzeResult {
	var start = time.Now()

	if kingCaptureAvailable(pos) {
		return AnalyzeResult{Winner: winner, Result: mate.Unwinnable, Elapsed: time.Since(start)}
	}

	d.search.SetLimit(d.Limit)
	d.search.SetWinner(winner)

	var result mate.Result
	var stage mate.Stage
	var hasStage bool
	switch {
	case d.Target == mate.TargetShortest:
		result = mate.FindShortest(pos, &d.search, d.sys)
	case d.Mode == ModeQuick:
		result = mate.QuickAnalysis(pos, &d.search, d.sys)
	default:
		result, stage = mate.FullAnalysis(pos, &d.search, d.sys)
		hasStage = true
	}

	var out = AnalyzeResult{
		Winner:   winner,
		Result:   result,
		Stage:    stage,
		HasStage: hasStage,
		Nodes:    d.search.Nodes(),
		Sequence: d.search.Sequence(),
		Elapsed:  time.Since(start),
	}

	if d.Logger != nil {
		if hasStage {
			d.Logger.Printf("winner=%s result=%s stage=%s nodes=%d elapsed=%v",
				winner, result, stage, out.Nodes, out.Elapsed)
		} else {
			d.Logger.Printf("winner=%s result=%s nodes=%d elapsed=%v",
				winner, result, out.Nodes, out.Elapsed)
		}
	}

	return out
}

// kingCaptureAvailable reports whether the side to move is already in check
// from an attacker it could legally capture the enemy king with on this
// very move — a malformed, unreachable position that must never be handed
// to move generation.
func kingCaptureAvailable(pos *chess.Position) bool {
	var loser = pos.SideToMove.Opposite()
	return pos.AttackersTo(pos.KingSquare(loser))&pos.Pieces(pos.SideToMove) != 0
}

// FormatResult renders one AnalyzeResult in the tool's line-oriented output
// format: "winnable <move1> ... <moveK>#" (or "unwinnable"/"undetermined")
// followed by "nodes <N> time <µs>".
func FormatResult(r AnalyzeResult) string {
	var sb strings.Builder
	switch r.Result {
	case mate.Winnable:
		sb.WriteString("winnable")
		for _, m := range r.Sequence {
			sb.WriteString(" ")
			sb.WriteString(m.String())
		}
		sb.WriteString("#")
	case mate.Unwinnable:
		sb.WriteString("unwinnable")
	default:
		sb.WriteString("undetermined")
	}
	fmt.Fprintf(&sb, "\nnodes %d time %d", r.Nodes, r.Elapsed.Microseconds())
	if r.HasStage {
		fmt.Fprintf(&sb, " stage %s", r.Stage)
	}
	return sb.String()
}

// FormatResultCompact renders one AnalyzeResult on a single line, for
// contexts (like a batch report row) where FormatResult's multi-line form
// would break one-position-per-line output.
func FormatResultCompact(r AnalyzeResult) string {
	return strings.ReplaceAll(FormatResult(r), "\n", " ")
}

// RunLine parses one query line — a FEN, optionally followed by "white" or
// "black" to analyze only that side — and writes its formatted result(s) to
// w, each annotated with the input line per the "(<input line>)" suffix. It
// returns false when the line is the "quit" sentinel. With no explicit
// side, the intended winner defaults to whoever just moved: the color
// opposite the side to move.
func (d *Driver) RunLine(line string, w io.Writer) bool {
	var trimmed = strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return true
	}
	if trimmed == "quit" {
		return false
	}

	var fen, side = splitTrailingSide(trimmed)
	var pos, err = chess.PositionFromFEN(fen)
	if err != nil {
		fmt.Fprintf(w, "error: %v (%s)\n", err, trimmed)
		return true
	}

	if d.TimeoutForm {
		var white = d.Analyze(&pos, chess.White)
		var black = d.Analyze(&pos, chess.Black)
		fmt.Fprintf(w, "%s (%s)\n", FormatAdjudication(white, black), trimmed)
		return true
	}

	var winners []chess.Color
	switch side {
	case "white":
		winners = []chess.Color{chess.White}
	case "black":
		winners = []chess.Color{chess.Black}
	default:
		winners = []chess.Color{pos.SideToMove.Opposite()}
	}

	for _, winner := range winners {
		var r = d.Analyze(&pos, winner)
		if d.SuppressWinnable && r.Result == mate.Winnable {
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", FormatResult(r), trimmed)
	}
	return true
}

func splitTrailingSide(line string) (fen string, side string) {
	var fields = strings.Fields(line)
	if len(fields) == 0 {
		return line, ""
	}
	var last = fields[len(fields)-1]
	if last == "white" || last == "black" {
		return strings.Join(fields[:len(fields)-1], " "), last
	}
	return line, ""
}

// RunLoop drives r line by line, in the style of shell.UciProtocol.Run's
// scanner loop, writing each query's result to w until "quit" or EOF.
func (d *Driver) RunLoop(r io.Reader, w io.Writer) error {
	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		if !d.RunLine(scanner.Text(), w) {
			break
		}
	}
	return scanner.Err()
}

// IsDead reports whether pos is a dead position (neither side can mate).
func (d *Driver) IsDead(pos *chess.Position) bool {
	return mate.IsDeadPosition(pos, d.sys)
}

// FormatAdjudication renders a position's two AnalyzeResults as a PGN-style
// game result, the way an arbiter adjudicating a timed-out game would: draw
// once both sides are unwinnable, decisive once exactly one side's
// opponent is unwinnable and that side itself is not, and "*" whenever
// either search left the question open.
func FormatAdjudication(white, black AnalyzeResult) string {
	if white.Result == mate.Undetermined || black.Result == mate.Undetermined {
		return "*"
	}
	var whiteCanMate = white.Result == mate.Winnable
	var blackCanMate = black.Result == mate.Winnable
	switch {
	case !whiteCanMate && !blackCanMate:
		return "1/2-1/2"
	case whiteCanMate && !blackCanMate:
		return "1-0"
	case blackCanMate && !whiteCanMate:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}
