package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	t.Run("should multiply page by size", func(t *testing.T) {
		assert.Equal(t, uint64(0), PageOffset(0, 20))
		assert.Equal(t, uint64(40), PageOffset(2, 20))
	})

	t.Run("should clamp offsets that overflow", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxInt64), PageOffset(922337203685477580, 100))
		assert.Equal(t, uint64(math.MaxInt64), PageOffset(math.MaxInt, 100))
	})
}
