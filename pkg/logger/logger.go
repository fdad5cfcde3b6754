// Package logger provides the optional diagnostic logger used across
// fi-verifiable-data. A nil *Log is valid everywhere one is accepted and
// is a complete no-op: the library never logs unless a caller constructs
// and passes a logger in explicitly.
package logger

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log wraps a logr.Logger so callers depend on one small type rather than
// on zap directly.
type Log struct {
	logr.Logger
}

// New builds a development-style logger named after the given component.
// Production callers may instead build their own logr.Logger (for example
// from a zap.Logger via zapr) and wrap it with Wrap.
func New(name string) *Log {
	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zc.DisableCaller = true
	zc.DisableStacktrace = true

	z, err := zc.Build()
	if err != nil {
		return nil
	}
	return &Log{Logger: zapr.NewLogger(z).WithName(name)}
}

// Wrap adapts an existing logr.Logger (e.g. one the caller's own service
// already built) into a *Log.
func Wrap(l logr.Logger) *Log {
	return &Log{Logger: l}
}

// Named returns a sub-logger scoped to path, or nil if the receiver is nil.
func (l *Log) Named(path string) *Log {
	if l == nil {
		return nil
	}
	return &Log{Logger: l.WithName(path)}
}

// Debug logs at a diagnostic verbosity. No-op on a nil receiver.
func (l *Log) Debug(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.Logger.V(1).Info(msg, keysAndValues...)
}

// Info logs at the default verbosity. No-op on a nil receiver.
func (l *Log) Info(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.Logger.V(0).Info(msg, keysAndValues...)
}
