package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJoinCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateJoinCode()
		require.NoError(t, err)
		assert.Len(t, code, codeLength)
		for _, r := range code {
			assert.Contains(t, codeCharset, string(r))
		}
	}
}

func TestGenerateUniqueCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	code, err := generateUniqueCode(func(string) (bool, error) {
		calls++
		return calls <= 3, nil
	})

	require.NoError(t, err)
	assert.Len(t, code, codeLength)
	assert.Equal(t, 4, calls)
}

func TestGenerateUniqueCodeExhausted(t *testing.T) {
	calls := 0
	code, err := generateUniqueCode(func(string) (bool, error) {
		calls++
		return true, nil
	})

	assert.ErrorIs(t, err, ErrCodeCollisionExhausted)
	assert.Empty(t, code)
	assert.Equal(t, maxCodeAttempts, calls)
}

func TestGenerateJoinCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateJoinCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 samples from a 36^6 space collapsing to a single value would mean
	// the random source is broken.
	assert.Greater(t, len(seen), 1)
}
