package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gochess/cha/internal/chess"
	"github.com/gochess/cha/internal/mate"
	"golang.org/x/sync/errgroup"
)

// BatchStats aggregates the outcome of a test-file run, in the spirit of
// test.cpp's running totals, including the pre-static/static/post-static
// breakdown of which pipeline stage settled each verdict.
type BatchStats struct {
	TotalPositions int
	Solved         int
	Failed         int
	PreStatic      int
	Static         int
	PostStatic     int
	TotalNodes     uint64
	MaxNodes       uint64
	Elapsed        time.Duration
}

func (s BatchStats) String() string {
	var avg uint64
	if s.TotalPositions > 0 {
		avg = s.TotalNodes / uint64(s.TotalPositions)
	}
	return fmt.Sprintf(
		"solved: %d/%d\nfailed: %d\npre-static: %d\nstatic: %d\npost-static: %d\ntotal nodes: %d\nnodes (avg): %d\nnodes (max): %d\nelapsed: %v",
		s.Solved, s.TotalPositions, s.Failed, s.PreStatic, s.Static, s.PostStatic,
		s.TotalNodes, avg, s.MaxNodes, s.Elapsed.Round(time.Millisecond))
}

// batchLine is one parsed test-file entry: two expectation characters
// ('W'/'-' for white, 'B'/'-' for black) followed by a FEN, e.g. "W-
// 8/8/4k3/8/8/3K4/8/3Q4 w - - 0 1" for a position only White could
// theoretically helpmate from.
type batchLine struct {
	lineNo   int
	expected string
	fen      string
}

func parseBatchLine(lineNo int, line string) (batchLine, bool) {
	var trimmed = strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return batchLine{}, false
	}
	var fields = strings.Fields(trimmed)
	if len(fields) < 2 || len(fields[0]) != 2 {
		return batchLine{}, false
	}
	return batchLine{lineNo: lineNo, expected: fields[0], fen: strings.Join(fields[1:], " ")}, true
}

type lineOutcome struct {
	lineNo                          int
	report                          string
	nodes                           uint64
	preStatic, static, postStatic   int
	failed                          bool
	skipped                         bool
}

// RunBatch reads a test file (one "WB fen"-style line per position) and
// analyzes both colors for every line, sharding the lines across workers
// concurrent goroutines with golang.org/x/sync/errgroup. Output is
// reordered back to file order before being written to w, so concurrency
// never makes the report nondeterministic.
func (d *Driver) RunBatch(filePath string, workers int, w io.Writer) (BatchStats, error) {
	var file, err = os.Open(filePath)
	if err != nil {
		return BatchStats{}, err
	}
	defer file.Close()

	var lines []batchLine
	var scanner = bufio.NewScanner(file)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		if bl, ok := parseBatchLine(lineNo, scanner.Text()); ok {
			lines = append(lines, bl)
		}
	}
	if err := scanner.Err(); err != nil {
		return BatchStats{}, err
	}

	if workers > len(lines) {
		workers = len(lines)
	}
	if workers < 1 {
		workers = 1
	}

	var start = time.Now()
	var outcomes = make([]lineOutcome, len(lines))
	var group errgroup.Group

	// Each worker gets its own Driver (and so its own semistatic.System and
	// mate.Search): System.Saturate mutates shared internal state, so a
	// System can never be safely shared across concurrent goroutines.
	// Sharding by contiguous ranges lets each worker build its System once
	// instead of once per line.
	for w := 0; w < workers; w++ {
		var lo = w * len(lines) / workers
		var hi = (w + 1) * len(lines) / workers
		var shard = lines[lo:hi]
		group.Go(func() error {
			var wd = NewDriver()
			wd.Mode, wd.Limit, wd.Target = d.Mode, d.Limit, d.Target
			for i, bl := range shard {
				outcomes[lo+i] = analyzeBatchLine(wd, bl)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return BatchStats{}, err
	}

	var stats BatchStats
	for _, o := range outcomes {
		if o.skipped {
			continue
		}
		fmt.Fprintln(w, o.report)
		stats.TotalPositions++
		if o.failed {
			stats.Failed++
		} else {
			stats.Solved++
		}
		stats.TotalNodes += o.nodes
		if o.nodes > stats.MaxNodes {
			stats.MaxNodes = o.nodes
		}
		stats.PreStatic += o.preStatic
		stats.Static += o.static
		stats.PostStatic += o.postStatic
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// analyzeBatchLine analyzes one line using the caller's Driver.
func analyzeBatchLine(d *Driver, bl batchLine) lineOutcome {
	var pos, err = chess.PositionFromFEN(bl.fen)
	if err != nil {
		return lineOutcome{lineNo: bl.lineNo, skipped: true}
	}

	var nodes uint64
	var failed bool
	var report strings.Builder
	fmt.Fprintf(&report, "%s %s", bl.expected, bl.fen)

	var out = lineOutcome{lineNo: bl.lineNo}
	for _, winner := range [2]chess.Color{chess.White, chess.Black} {
		var r = d.Analyze(&pos, winner)
		nodes += r.Nodes
		var expectWinnable = expectedWinnable(bl.expected, winner)
		if r.Result != mate.Undetermined {
			var gotWinnable = r.Result == mate.Winnable
			if gotWinnable != expectWinnable {
				failed = true
			}
		}
		if r.HasStage {
			switch r.Stage {
			case mate.StagePreStatic:
				out.preStatic++
			case mate.StageStatic:
				out.static++
			default:
				out.postStatic++
			}
		}
		fmt.Fprintf(&report, " | %s", FormatResultCompact(r))
	}

	out.report = report.String()
	out.nodes = nodes
	out.failed = failed
	return out
}

func expectedWinnable(expected string, side chess.Color) bool {
	if len(expected) != 2 {
		return false
	}
	if side == chess.White {
		return expected[0] == 'W'
	}
	return expected[1] == 'B'
}
