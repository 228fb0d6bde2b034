package lotto

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// SecureRandomGenerator implements secure random number generation using crypto/rand
type SecureRandomGenerator struct{}

// NewSecureRandomGenerator creates a new secure random generator
func NewSecureRandomGenerator() *SecureRandomGenerator {
	return &SecureRandomGenerator{}
}

// GenerateInRange generates a secure random number within [min, max] (inclusive).
// rand.Int draws uniformly over the range size, so the result carries no modulo bias.
func (g *SecureRandomGenerator) GenerateInRange(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}

	// Handle edge case where min == max
	if min == max {
		return min, nil
	}

	rangeSize := max - min + 1

	randomBig, err := rand.Int(rand.Reader, big.NewInt(int64(rangeSize)))
	if err != nil {
		return 0, err
	}

	return int(randomBig.Int64()) + min, nil
}

// GenerateSecureInRange is a standalone function for generating secure random numbers in range
func GenerateSecureInRange(min, max int) (int, error) {
	return NewSecureRandomGenerator().GenerateInRange(min, max)
}

// generateLockValue generates a unique lock value using crypto/rand
func generateLockValue() string {
	bytes := make([]byte, 16)
	_, err := rand.Read(bytes)
	if err != nil {
		// Fallback to timestamp-based value if crypto/rand fails
		return fmt.Sprintf("lock_%d", time.Now().UnixNano())
	}

	const hexChars = "0123456789abcdef"
	result := make([]byte, 32)
	for i, b := range bytes {
		result[i*2] = hexChars[b>>4]
		result[i*2+1] = hexChars[b&0x0f]
	}

	return string(result)
}
