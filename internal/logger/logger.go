// Package logger provides a small asynchronous stdout logger for the
// engine's host tooling (cmd/plog and benchmarks). Modelled on
// dtail/internal/io/logger, stripped of the file-rotation and SSH-signal
// machinery that don't apply to a single-shot CLI.
package logger

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	infoStr  = "INFO"
	warnStr  = "WARN"
	errorStr = "ERROR"
	debugStr = "DEBUG"
)

// Mode controls what gets logged.
type Mode struct {
	// Quiet suppresses Info/Debug, keeping only Warn/Error.
	Quiet bool
	// Debug enables Debug-level messages.
	Debug bool
	// NoColor disables ANSI colorization of severities.
	NoColor bool
}

var (
	mode         Mode
	mutex        sync.Mutex
	stdoutWriter *bufio.Writer
	bufCh        chan string
	started      bool
)

// Start launches the background writer goroutine. Safe to call once per
// process; ctx cancellation flushes and stops the writer.
func Start(ctx context.Context, myMode Mode) {
	mutex.Lock()
	defer mutex.Unlock()
	if started {
		return
	}
	started = true
	mode = myMode
	stdoutWriter = bufio.NewWriter(os.Stdout)
	bufCh = make(chan string, 256)
	go writeLoop(ctx)
}

func severityColor(sev string) string {
	switch sev {
	case warnStr:
		return color.YellowString(sev)
	case errorStr:
		return color.RedString(sev)
	case debugStr:
		return color.CyanString(sev)
	default:
		return color.GreenString(sev)
	}
}

func logf(severity string, args []interface{}) string {
	if !started {
		return ""
	}
	if mode.Quiet && severity != errorStr && severity != warnStr {
		return ""
	}
	if severity == debugStr && !mode.Debug {
		return ""
	}

	parts := make([]string, 0, len(args)+1)
	sevDisplay := severity
	if !mode.NoColor {
		sevDisplay = severityColor(severity)
	}
	parts = append(parts, sevDisplay)
	for _, a := range args {
		switch v := a.(type) {
		case string:
			parts = append(parts, v)
		case error:
			parts = append(parts, v.Error())
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}

	line := strings.Join(parts, "|")
	bufCh <- line + "\n"
	return line
}

// Info logs an informational message.
func Info(args ...interface{}) string { return logf(infoStr, args) }

// Warn logs a warning.
func Warn(args ...interface{}) string { return logf(warnStr, args) }

// Error logs an error.
func Error(args ...interface{}) string { return logf(errorStr, args) }

// Debug logs a debug message, only emitted when Mode.Debug is set.
func Debug(args ...interface{}) string { return logf(debugStr, args) }

// Flush drains and writes any buffered log lines synchronously.
func Flush() {
	if !started {
		return
	}
	for {
		select {
		case line := <-bufCh:
			stdoutWriter.WriteString(line)
		default:
			stdoutWriter.Flush()
			return
		}
	}
}

func writeLoop(ctx context.Context) {
	for {
		select {
		case line := <-bufCh:
			stdoutWriter.WriteString(line)
		case <-time.After(100 * time.Millisecond):
			stdoutWriter.Flush()
		case <-ctx.Done():
			Flush()
			return
		}
	}
}
