package numerator

import "context"

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid touching receipt logs.
type MockGenerator struct {
	NextNumberFunc func(ctx context.Context) (string, error)
}

// NextNumber implements Generator.
func (m *MockGenerator) NextNumber(ctx context.Context) (string, error) {
	if m.NextNumberFunc != nil {
		return m.NextNumberFunc(ctx)
	}
	return "1", nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
