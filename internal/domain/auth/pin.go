// Package auth guards the admin menu behind an optional bcrypt-hashed PIN.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kassa/internal/core/apperror"
	"kassa/internal/core/clock"
	"kassa/pkg/logger"
)

// MinPinLength is the shortest PIN HashPin accepts.
const MinPinLength = 4

// PinGateConfig holds PIN gate configuration.
type PinGateConfig struct {
	// Hash is a bcrypt hash of the PIN. Empty disables the gate.
	Hash         string
	MaxAttempts  int
	LockDuration time.Duration
	Clock        clock.Clock
}

// DefaultPinGateConfig returns default configuration for hash.
func DefaultPinGateConfig(hash string) PinGateConfig {
	return PinGateConfig{
		Hash:         hash,
		MaxAttempts:  3,
		LockDuration: time.Minute,
	}
}

// PinGate verifies the admin PIN and locks out after repeated failures.
type PinGate struct {
	hash         []byte
	maxAttempts  int
	lockDuration time.Duration
	clock        clock.Clock

	failedAttempts int
	lockedUntil    time.Time
}

// NewPinGate creates a gate. A hash that is not bcrypt is rejected.
func NewPinGate(cfg PinGateConfig) (*PinGate, error) {
	hash := strings.TrimSpace(cfg.Hash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, apperror.NewValidation("invalid admin PIN hash").WithCause(err)
		}
	}

	g := &PinGate{
		hash:         []byte(hash),
		maxAttempts:  cfg.MaxAttempts,
		lockDuration: cfg.LockDuration,
		clock:        cfg.Clock,
	}
	if g.maxAttempts <= 0 {
		g.maxAttempts = 3
	}
	if g.clock == nil {
		g.clock = clock.NewRealClock()
	}
	return g, nil
}

// Enabled reports whether a PIN is required.
func (g *PinGate) Enabled() bool {
	return len(g.hash) > 0
}

// Locked reports whether the gate refuses attempts right now.
func (g *PinGate) Locked() bool {
	return g.clock.Now().Before(g.lockedUntil)
}

// Verify checks pin. A disabled gate accepts anything.
func (g *PinGate) Verify(ctx context.Context, pin string) error {
	if !g.Enabled() {
		return nil
	}
	if g.Locked() {
		return apperror.NewUnauthorized("admin is temporarily locked")
	}

	err := bcrypt.CompareHashAndPassword(g.hash, []byte(strings.TrimSpace(pin)))
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperror.NewInternal(err)
		}
		g.recordFailure()
		logger.Warn(ctx, "admin PIN rejected", "failed_attempts", g.failedAttempts)
		return apperror.NewUnauthorized("invalid PIN")
	}

	g.failedAttempts = 0
	g.lockedUntil = time.Time{}
	logger.Info(ctx, "admin unlocked")
	return nil
}

func (g *PinGate) recordFailure() {
	g.failedAttempts++
	if g.failedAttempts >= g.maxAttempts {
		g.lockedUntil = g.clock.Now().Add(g.lockDuration)
		g.failedAttempts = 0
	}
}

// HashPin returns a bcrypt hash suitable for REGISTER_ADMIN_PIN_HASH.
func HashPin(pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if len(pin) < MinPinLength {
		return "", apperror.NewValidation("PIN is too short").
			WithDetail("min_length", MinPinLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
