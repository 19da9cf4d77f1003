// Package log configures the process-wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup installs the default slog logger. Only the first call has an effect.
// An empty logFile logs to stderr; if the file cannot be opened the logger
// falls back to stderr as well.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		slog.SetDefault(slog.New(newHandler(openLog(logFile), debug)))
		initialized.Store(true)
	})
}

func openLog(logFile string) io.Writer {
	if logFile == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return os.Stderr
	}
	return f
}

func newHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
}

func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic logs a panic in the named goroutine and runs cleanup. It must
// be deferred directly.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
