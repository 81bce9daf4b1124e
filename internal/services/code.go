package services

import (
	"crypto/rand"
	"math/big"
)

const (
	codeLength      = 6
	codeCharset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 10
)

// codeProbe reports whether a candidate join code is already taken.
type codeProbe func(code string) (bool, error)

// generateJoinCode samples a fixed-length code from uppercase letters and
// digits. crypto/rand only: join codes are public identifiers and must not
// come from a seedable generator.
func generateJoinCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		buf[i] = codeCharset[n.Int64()]
	}
	return string(buf), nil
}

// generateUniqueCode resamples on collision. The attempt cap turns an
// astronomically unlikely run of collisions into a surfaced error instead
// of an unbounded loop.
func generateUniqueCode(taken codeProbe) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return "", err
		}
		exists, err := taken(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeCollisionExhausted
}
