// Package logger provides the application-wide structured logger.
//
// It wraps a zap SugaredLogger behind package-level functions so that
// callers do not need to thread a logger through every constructor.
// Initialize must be called once at startup; the package falls back to
// a production logger if it is not.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.Mutex
	log *zap.SugaredLogger
)

// Initialize sets up the global logger. When debug is true, logs are
// written in a human-readable console format at debug level; otherwise
// JSON at info level.
func Initialize(debug bool) {
	mu.Lock()
	defer mu.Unlock()

	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	// Keep stdout clean for commands that print data.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap only fails on invalid config; ours is static.
		panic(err)
	}
	log = l.Sugar()
}

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		l, _ := zap.NewProduction(zap.AddCallerSkip(1))
		log = l.Sugar()
	}
	return log
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = get().Sync()
}

// Debug logs a message at debug level.
func Debug(args ...any) { get().Debug(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { get().Debugf(format, args...) }

// Info logs a message at info level.
func Info(args ...any) { get().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { get().Infof(format, args...) }

// Warn logs a message at warn level.
func Warn(args ...any) { get().Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { get().Warnf(format, args...) }

// Error logs a message at error level.
func Error(args ...any) { get().Error(args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { get().Errorf(format, args...) }

// Fatalf logs a formatted message and exits.
func Fatalf(format string, args ...any) { get().Fatalf(format, args...) }
