// Package numerator provides the log-backed implementation of receipt
// serial numbering. It implements core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"sync"

	corenumerator "kassa/internal/core/numerator"
)

// Service hands out serial numbers as one past the last number reported by
// its Source. Nothing is cached: the source is consulted on every call so a
// draft that is abandoned never burns a number.
type Service struct {
	mu     sync.Mutex
	source corenumerator.Source
	cfg    corenumerator.Config
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator over source.
func New(source corenumerator.Source, cfg corenumerator.Config) *Service {
	if cfg.Start <= 0 {
		cfg.Start = corenumerator.DefaultConfig().Start
	}
	return &Service{source: source, cfg: cfg}
}

// NextNumber implements corenumerator.Generator.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	if s == nil || s.source == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok, err := s.source.LastNumber(ctx)
	if err != nil {
		return "", fmt.Errorf("last number: %w", err)
	}

	next := s.cfg.Start
	if ok && last+1 > next {
		next = last + 1
	}
	return s.cfg.Format(next), nil
}
