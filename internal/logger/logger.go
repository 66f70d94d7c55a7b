// Package logger is the process-wide structured logger. Library packages log
// through it so embedders can swap the backend with SetLogger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}

// Options configures the logger.
type Options struct {
	// Debug enables debug-level output.
	Debug bool
	// Quiet drops everything below errors. It wins over Debug.
	Quiet bool
	// JSON switches to the JSON handler.
	JSON bool
	// Output defaults to stderr.
	Output io.Writer
}

// Init replaces the logger according to the options.
func Init(opts Options) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	if opts.Quiet {
		level = slog.LevelError
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, hopts)
	} else {
		handler = slog.NewTextHandler(out, hopts)
	}
	current.Store(slog.New(handler))
}

// SetLogger installs a caller-provided slog.Logger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		current.Store(l)
	}
}

func Debug(msg string, args ...any) { current.Load().Debug(msg, args...) }

func Info(msg string, args ...any) { current.Load().Info(msg, args...) }

func Warn(msg string, args ...any) { current.Load().Warn(msg, args...) }

func Error(msg string, args ...any) { current.Load().Error(msg, args...) }

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger { return current.Load().With(args...) }
