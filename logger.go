package bfront

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogImplicitFlushError(err error)
	LogForward(from, to *Request)
	LogRecovering(err error, status int)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("bfront: unhandled server error: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("bfront: error while flushing implicitly: %s", err)
}

func (l stdLogger) LogForward(from, to *Request) {
	l.Logger.Printf("bfront: forward from %s to %s", from, to)
}

func (l stdLogger) LogRecovering(err error, status int) {
	l.Logger.Printf("bfront: recovering from error with status %d: %s", status, err)
}

// NewStdLogger returns a logger that prints to l, or to the default logger if l is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogImplicitFlushError  int64
	NumLogForward             int64
	NumLogRecovering          int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("bfront: unhandled server error: %s", err)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.tb.Logf("bfront: error while flushing implicitly: %s", err)
}

func (l *TestLogger) LogForward(from, to *Request) {
	atomic.AddInt64(&l.NumLogForward, 1)
	l.tb.Logf("bfront: forward from %s to %s", from, to)
}

func (l *TestLogger) LogRecovering(err error, status int) {
	atomic.AddInt64(&l.NumLogRecovering, 1)
	l.tb.Logf("bfront: recovering from error with status %d: %s", status, err)
}

var _ Logger = &TestLogger{}
