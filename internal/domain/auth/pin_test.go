package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kassa/internal/core/apperror"
	"kassa/internal/core/clock"
)

func testHash(t *testing.T, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestPinGate_Disabled(t *testing.T) {
	g, err := NewPinGate(DefaultPinGateConfig(""))
	require.NoError(t, err)

	assert.False(t, g.Enabled())
	assert.NoError(t, g.Verify(context.Background(), "anything"))
}

func TestPinGate_Verify(t *testing.T) {
	g, err := NewPinGate(DefaultPinGateConfig(testHash(t, "1234")))
	require.NoError(t, err)
	require.True(t, g.Enabled())

	assert.NoError(t, g.Verify(context.Background(), "1234"))
	assert.NoError(t, g.Verify(context.Background(), " 1234\n"))

	err = g.Verify(context.Background(), "0000")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestPinGate_LocksAfterRepeatedFailures(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	cfg := DefaultPinGateConfig(testHash(t, "1234"))
	cfg.Clock = clk
	g, err := NewPinGate(cfg)
	require.NoError(t, err)

	for i := 0; i < cfg.MaxAttempts; i++ {
		assert.Error(t, g.Verify(context.Background(), "0000"))
	}
	assert.True(t, g.Locked())
	assert.Error(t, g.Verify(context.Background(), "1234"), "correct PIN is refused while locked")

	clk.Advance(cfg.LockDuration + time.Second)
	assert.False(t, g.Locked())
	assert.NoError(t, g.Verify(context.Background(), "1234"))
}

func TestNewPinGate_InvalidHash(t *testing.T) {
	_, err := NewPinGate(DefaultPinGateConfig("not-a-bcrypt-hash"))
	assert.Error(t, err)
}

func TestHashPin(t *testing.T) {
	hash, err := HashPin("4711")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("4711")))

	_, err = HashPin("12")
	assert.Error(t, err)
}
