package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a, b := New(), New()

	assert.NotEqual(t, a, b)
	assert.Equal(t, 7, int(a.Version()))
	assert.LessOrEqual(t, a.String()[:8], b.String()[:8])
}
