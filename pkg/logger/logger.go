// Package logger carries a zap logger through context and tags every entry
// with the operator session it belongs to.
package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "kassa/internal/core/context"
)

// stdout belongs to the register console; log lines never go there unless
// configured explicitly.
const defaultOutput = "stderr"

// Logger is a sugared zap logger.
type Logger struct {
	*zap.SugaredLogger
}

type ctxKey struct{}

// Config selects level, encoder and destinations.
type Config struct {
	Level       string // debug, info, warn, error; anything else means info
	Development bool   // console encoder with capitalized levels
	OutputPaths []string
}

func (c Config) build() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	outputs := c.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{defaultOutput}
	}
	zc.OutputPaths = outputs
	zc.ErrorOutputPaths = outputs

	return zc.Build(zap.AddCallerSkip(1))
}

// New builds a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	z, err := cfg.build()
	if err != nil {
		return nil, err
	}
	return &Logger{z.Sugar()}, nil
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// fallback serves contexts that never got a logger attached.
var fallback = sync.OnceValue(func() *Logger {
	l, err := New(Config{})
	if err != nil {
		return NewNop()
	}
	return l
})

// WithComponent tags entries with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.With("component", name)}
}

func (l *Logger) forSession(s *appctx.SessionContext) *Logger {
	if s == nil {
		return l
	}
	return &Logger{l.With("session_id", s.SessionID, "mode", s.Mode)}
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the stored logger, or the stderr fallback, tagged
// with the current session if there is one.
func FromContext(ctx context.Context) *Logger {
	l, ok := ctx.Value(ctxKey{}).(*Logger)
	if !ok {
		l = fallback()
	}
	return l.forSession(appctx.GetSession(ctx))
}

// Debug logs through the context logger.
func Debug(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Debugw(msg, kv...) }

// Info logs through the context logger.
func Info(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Infow(msg, kv...) }

// Warn logs through the context logger.
func Warn(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Warnw(msg, kv...) }

// Error logs through the context logger.
func Error(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Errorw(msg, kv...) }
