package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "kassa/internal/core/context"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestFromContext_AddsSession(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)
	session := appctx.NewSession(appctx.ModeCheckout)

	ctx := WithLogger(context.Background(), l.WithComponent("test"))
	ctx = appctx.WithSession(ctx, session)
	Info(ctx, "receipt paid", "serial", "8")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "receipt paid", entries[0].Message)
	assert.Equal(t, session.SessionID, fields["session_id"])
	assert.Equal(t, appctx.ModeCheckout, fields["mode"])
	assert.Equal(t, "test", fields["component"])
	assert.Equal(t, "8", fields["serial"])
}

func TestFromContext_WithoutSession(t *testing.T) {
	l, logs := observed(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), l)

	Debug(ctx, "filtered")
	Warn(ctx, "kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "session_id")
}

func TestNew_ParsesLevel(t *testing.T) {
	l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.WarnLevel))

	l, err = New(Config{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestFromContext_FallsBackWithoutLogger(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.Same(t, fallback(), l)
}
