package bfrontapp

import (
	"github.com/advdv/bfront"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding suitable for log shippers.
// BF_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct {
	*zap.Logger
	metrics *Metrics
}

func (l zapLogger) LogUnhandledServeError(err error) {
	l.metrics.unhandled()
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while flushing implicitly", zap.Error(err))
}

func (l zapLogger) LogForward(from, to *bfront.Request) {
	l.metrics.forwarded(to)
	l.Logger.Debug("forward", zap.Stringer("from", from), zap.Stringer("to", to))
}

func (l zapLogger) LogRecovering(err error, status int) {
	l.metrics.recovering(status)
	l.Logger.Warn("recovering from error", zap.Error(err), zap.Int("status", status))
}

func newZapFrontLogger(l *zap.Logger, m *Metrics) bfront.Logger {
	return zapLogger{Logger: l.Named("bfront").Named("app"), metrics: m}
}
