// Command cha is the chess-unwinnability analyzer's command-line entry
// point: a line-oriented driver over stdin/stdout, plus a batch mode over a
// fixed test file, in the spirit of the teacher's cmd/uci wiring of
// shell.UciProtocol.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/gochess/cha/internal/cli"
	"github.com/gochess/cha/internal/mate"
)

const defaultTestFile = "testdata/tests.epd"

func main() {
	var flags = flag.NewFlagSet("cha", flag.ExitOnError)
	var (
		suppressWinnable = flags.Bool("u", false, "suppress output when the verdict is winnable")
		findShortest     = flags.Bool("min", false, "find the shortest helpmate instead of any helpmate")
		quick            = flags.Bool("quick", false, "quick analysis only, skip iterative-deepening search")
		timeoutForm      = flags.Bool("timeout", false, "print PGN-style adjudication instead of an analysis line")
		limit            = flags.Uint64("limit", 500000, "global node budget per analyzed color")
		workers          = flags.Int("workers", runtime.GOMAXPROCS(0), "batch-mode worker count; 0 or 1 runs sequentially")
		verbose          = flags.Bool("v", false, "verbose stage-transition and timing logging")
	)
	flags.Parse(os.Args[1:])

	var logger = log.New(os.Stderr, "", log.LstdFlags)

	var testMode = false
	for _, arg := range flags.Args() {
		if arg == "test" {
			testMode = true
		}
	}

	var driver = cli.NewDriver()
	driver.Target = mate.TargetAny
	if *findShortest {
		driver.Target = mate.TargetShortest
	}
	driver.Mode = cli.ModeFull
	if *quick {
		driver.Mode = cli.ModeQuick
	}
	driver.Limit = *limit

	if testMode {
		if !flagWasSet(flags, "limit") {
			driver.Limit = 5000000
		}
		runBatchMode(driver, *workers, logger, *verbose)
		return
	}

	runInteractive(driver, *suppressWinnable, *timeoutForm, logger, *verbose)
}

func flagWasSet(flags *flag.FlagSet, name string) bool {
	var found = false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func runBatchMode(driver *cli.Driver, workers int, logger *log.Logger, verbose bool) {
	if verbose {
		logger.Printf("running batch analysis of %s with %d worker(s)", defaultTestFile, workers)
	}
	var stats, err = driver.RunBatch(defaultTestFile, workers, os.Stdout)
	if err != nil {
		logger.Fatalf("cannot run test file %s: %v", defaultTestFile, err)
	}
	fmt.Println(stats)
}

func runInteractive(driver *cli.Driver, suppressWinnable, timeoutForm bool, logger *log.Logger, verbose bool) {
	driver.SuppressWinnable = suppressWinnable
	driver.TimeoutForm = timeoutForm
	if verbose {
		driver.Logger = logger
	}
	if err := driver.RunLoop(os.Stdin, os.Stdout); err != nil {
		logger.Fatalf("input error: %v", err)
	}
}
