// Package logging wraps charmbracelet/log with the rsfmt defaults: stderr
// output, no timestamps, and a level picked by name.
package logging

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // process-wide default logger
var defaultLogger atomic.Pointer[log.Logger]

// New returns a stderr logger at the named level ("debug", "info", "warn"
// or "error"). Unknown names select info.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{})
	logger.SetLevel(parseLevel(level))
	return logger
}

// NewInteractive returns an info logger prefixed with the program name, for
// prompts and confirmations printed by commands such as init.
func NewInteractive() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "rsfmt"})
	logger.SetLevel(log.InfoLevel)
	return logger
}

func parseLevel(name string) log.Level {
	if strings.EqualFold(name, "warning") {
		return log.WarnLevel
	}
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil || level > log.ErrorLevel {
		return log.InfoLevel
	}
	return level
}

// Default returns the process-wide logger, creating an info logger on first
// use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger; --debug uses it.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}
