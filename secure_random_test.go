package lotto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureRandomGenerator(t *testing.T) {
	gen := NewSecureRandomGenerator()

	t.Run("stays inside the inclusive range", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			n, err := gen.GenerateInRange(MinNumber, MaxNumber)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, MinNumber)
			assert.LessOrEqual(t, n, MaxNumber)
		}
	})

	t.Run("single-value range", func(t *testing.T) {
		n, err := gen.GenerateInRange(7, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("inverted range fails", func(t *testing.T) {
		_, err := gen.GenerateInRange(10, 1)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("hits both endpoints eventually", func(t *testing.T) {
		sawMin, sawMax := false, false
		for i := 0; i < 2000 && !(sawMin && sawMax); i++ {
			n, err := GenerateSecureInRange(1, 5)
			require.NoError(t, err)
			if n == 1 {
				sawMin = true
			}
			if n == 5 {
				sawMax = true
			}
		}
		assert.True(t, sawMin, "the minimum must be reachable")
		assert.True(t, sawMax, "the maximum must be reachable")
	})
}
