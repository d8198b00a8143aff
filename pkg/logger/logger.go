package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin facade over a zap sugared logger, keeping printf-shaped call
// sites throughout the codebase.
type Logger struct {
	*zap.SugaredLogger
}

// New builds a production logger at the given level. Unknown levels fall back
// to info.
func New(level string) *Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{z.Sugar()}
}

// Sync flushes buffered log entries; call before process exit.
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
