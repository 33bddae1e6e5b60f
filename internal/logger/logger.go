// Package logger provides verbose logging for the confadmin CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are written to stderr to show API traffic and source reconciliation.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = build(os.Stderr, false)
)

// build creates a console logger. Nothing is emitted unless verbose is set.
func build(w io.Writer, v bool) *zap.Logger {
	if !v {
		return zap.NewNop()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = func(l zapcore.Level, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString("[" + l.CapitalString() + "]")
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

func rebuild() {
	base = build(output, verbose)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// L returns the underlying zap logger for structured fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Sugar().Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	L().Sugar().Infof("=== %s ===", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	L().Sugar().Infof(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	L().Sugar().Warnf(format, args...)
}
