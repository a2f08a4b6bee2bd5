// Command plog is a terminal viewer over the parallel line indexer in
// internal/engine: it maps a file, partitions and (optionally) filters
// it across a worker pool, then pages the resulting lines to the
// terminal, highlighting matches and scope context.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/alexhude/PeculiarLog/internal/config"
	"github.com/alexhude/PeculiarLog/internal/engine"
	"github.com/alexhude/PeculiarLog/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(arguments []string) int {
	config.Setup(config.NewDefaultEngineConfig())

	fs := flag.NewFlagSet("plog", flag.ContinueOnError)
	args, err := config.ParseArgs(fs, arguments)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Start(ctx, logger.Mode{Quiet: args.Quiet, Debug: args.Debug, NoColor: args.NoColor})
	defer logger.Flush()
	logger.Debug("parsed args", args.String())

	e, err := engine.Open(args.File)
	if err != nil {
		logger.Error("open file", err)
		return 1
	}
	defer e.Close()

	blockCount := e.Init(config.Engine.ConcurrencyHint)
	logger.Info("partitioned file", fmt.Sprintf("blocks=%d", blockCount))

	if err := concurrentFetch(e, blockCount); err != nil {
		logger.Error("fetch", err)
		return 1
	}

	if args.Pattern != "" {
		e.SetIgnoreCase(args.IgnoreCase)
		e.SetScope(uint32(args.Before), uint32(args.After))
		if err := e.SetPattern(args.Pattern); err != nil {
			logger.Error("compile pattern", err)
			return 1
		}
		if err := concurrentFilter(e, blockCount); err != nil {
			logger.Error("filter", err)
			return 1
		}
		total, err := e.MergeScope()
		if err != nil {
			logger.Error("merge scope", err)
			return 1
		}
		logger.Info("filter complete", fmt.Sprintf("matches+context=%d", total))
		return page(e, total, args)
	}

	return page(e, totalUnfilteredLines(e, blockCount), args)
}

// concurrentFetch counts lines and widths across every block using a
// worker pool capped at runtime.NumCPU(), mirroring the bounded
// goroutine-pool idiom sourcegraph's searcher uses for concurrentFind:
// a shared index cursor under a mutex, workers pulling indices until
// none remain.
func concurrentFetch(e *engine.Engine, blockCount int) error {
	return concurrentEach(blockCount, func(i int) error {
		_, _, err := e.Fetch(i)
		return err
	})
}

func concurrentFilter(e *engine.Engine, blockCount int) error {
	return concurrentEach(blockCount, func(i int) error {
		_, _, err := e.Filter(i)
		return err
	})
}

func concurrentEach(n int, work func(i int) error) error {
	var (
		mu       sync.Mutex
		next     int
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				if next >= n {
					mu.Unlock()
					return
				}
				i := next
				next++
				mu.Unlock()

				if err := work(i); err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
			}
		}()
	}
	wg.Wait()
	return firstErr
}

func totalUnfilteredLines(e *engine.Engine, blockCount int) uint32 {
	var total uint32
	for i := 0; i < blockCount; i++ {
		lines, _, err := e.Fetch(i)
		if err != nil {
			continue
		}
		total += lines
	}
	return total
}

// page writes total result rows to stdout, a terminal-height window at
// a time, highlighting the active pattern (if any) and dimming scope
// context lines. Grounded on dtail's use of golang.org/x/term for pager
// sizing and github.com/fatih/color for match highlighting.
func page(e *engine.Engine, total uint32, args *config.Args) int {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	height := windowHeight()
	highlight := color.New(color.FgRed, color.Bold)
	scopeStyle := color.New(color.Faint)
	if args.NoColor {
		highlight.DisableColor()
		scopeStyle.DisableColor()
	}

	for n := uint32(0); n < total; n++ {
		line, err := e.GetLine(n)
		if err != nil {
			logger.Error("get line", err)
			return 1
		}

		text := string(line.Line)
		switch {
		case line.Scope:
			fmt.Fprintf(w, "%6d  %s\n", line.Number, scopeStyle.Sprint(text))
		case args.Pattern != "":
			fmt.Fprintf(w, "%6d: %s\n", line.Number, highlight.Sprint(text))
		default:
			fmt.Fprintf(w, "%6d: %s\n", line.Number, text)
		}

		if height > 0 && (n+1)%uint32(height) == 0 {
			w.Flush()
		}
	}
	return 0
}

func windowHeight() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	_, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return h
}
