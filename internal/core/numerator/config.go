package numerator

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds numbering configuration.
type Config struct {
	// Start is the first number handed out when the source is empty.
	Start int64

	// PadWidth is the minimum number width; 0 disables padding.
	PadWidth int
}

// DefaultConfig returns sensible defaults: numbering from 1, no padding.
func DefaultConfig() Config {
	return Config{Start: 1}
}

// Format renders n according to cfg.
func (cfg Config) Format(n int64) string {
	if cfg.PadWidth > 0 {
		return fmt.Sprintf("%0*d", cfg.PadWidth, n)
	}
	return strconv.FormatInt(n, 10)
}

// Parse reads a serial number written by Format (or by hand).
func Parse(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("serial number %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("serial number %q: negative", s)
	}
	return n, nil
}
