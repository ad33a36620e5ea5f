// Package klog defines the logging interface the dispatcher and
// handlers depend on, plus a zap-backed implementation. Nothing outside
// this package and cmd/kraft-broker imports zap directly (spec §4.7).
package klog

import "go.uber.org/zap"

// Field is a single structured log attribute.
type Field = zap.Field

// String, Int, Int32, Int16, Error, and Any are re-exported field
// constructors so callers never need to import zap themselves.
var (
	String = zap.String
	Int    = zap.Int
	Int32  = zap.Int32
	Int16  = zap.Int16
	Uint32 = zap.Uint32
	Error  = zap.Error
	Any    = zap.Any
)

// Logger is the narrow surface the broker depends on. It deliberately
// has no Fatal/Panic: a broker connection error is handled by closing
// the connection, never by killing the process.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type zapLogger struct {
	l *zap.Logger
}

// NewProduction returns a Logger backed by zap's production
// configuration (JSON output, info level and above).
func NewProduction() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

func (z *zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, fields...) }

// Nop returns a Logger that discards everything, for tests and code
// paths that don't care about log output.
func Nop() Logger { return &zapLogger{l: zap.NewNop()} }
