// Package numerator provides domain contracts for receipt serial numbering.
// Implementations live in infrastructure layer.
package numerator

import "context"

// Generator allocates the next receipt serial number.
type Generator interface {
	// NextNumber returns the serial for a new receipt as a decimal string.
	// It does not reserve the number: a receipt that is never persisted
	// leaves the sequence where it was.
	NextNumber(ctx context.Context) (string, error)
}

// Source reports the last serial in use. ok is false when nothing has been
// numbered yet.
type Source interface {
	LastNumber(ctx context.Context) (last int64, ok bool, err error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (int64, bool, error)

// LastNumber implements Source.
func (f SourceFunc) LastNumber(ctx context.Context) (int64, bool, error) {
	return f(ctx)
}
