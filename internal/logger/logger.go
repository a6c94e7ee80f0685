// Package logger provides verbose logging for the StudyMate CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow the question answering
// pipeline. A rotating JSON log file can be added with SetLogFile.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	rotator *lumberjack.Logger
	sugar   = zap.NewNop().Sugar()
)

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

// SetLogFile writes info-and-above entries as JSON to path, rotated at
// 10 MB. An empty path disables the file.
func SetLogFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
	if path != "" {
		rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	rebuild()
}

// Sync flushes buffered entries and closes the log file.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	err := sugar.Sync()
	if rotator != nil {
		if cerr := rotator.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// rebuild recreates the zap logger from the current state. Callers hold mu.
func rebuild() {
	var cores []zapcore.Core

	if verbose {
		cfg := zapcore.EncoderConfig{
			LevelKey:         "level",
			MessageKey:       "message",
			EncodeLevel:      bracketLevelEncoder,
			ConsoleSeparator: " ",
			LineEnding:       zapcore.DefaultLineEnding,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.Lock(zapcore.AddSync(output)),
			zap.DebugLevel,
		))
	}

	if rotator != nil {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(cfg),
			zapcore.AddSync(rotator),
			zap.InfoLevel,
		))
	}

	if len(cores) == 0 {
		sugar = zap.NewNop().Sugar()
		return
	}
	sugar = zap.New(zapcore.NewTee(cores...)).Sugar()
}

func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info logs an informational message. It reaches the console only in
// verbose mode.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Errorf(format, args...)
}
