// Package ids generates unique, lexicographically time-ordered task
// identifiers and provides prefix-matching helpers for short-id display.
package ids

import (
	"crypto/rand"
	"time"
)

// encoding is the Crockford base32 alphabet: case-insensitive and free of the
// ambiguous characters I, L, O, and U.
const encoding = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const (
	timeLength   = 10
	randomLength = 16

	// Length is the total length of a generated ID.
	Length = timeLength + randomLength
)

// New returns a ULID-shaped identifier: a millisecond timestamp component
// followed by a random component, both in Crockford base32. IDs sort
// lexicographically in approximate creation order, and the random component
// makes collisions across concurrent generation overwhelmingly unlikely.
func New(now time.Time) string {
	id := make([]byte, Length)
	encodeTime(id[:timeLength], now.UnixMilli())
	encodeRandom(id[timeLength:])
	return string(id)
}

func encodeTime(dest []byte, millis int64) {
	for i := len(dest) - 1; i >= 0; i-- {
		dest[i] = encoding[millis%32]
		millis /= 32
	}
}

func encodeRandom(dest []byte) {
	entropy := make([]byte, len(dest))
	// rand.Read never fails on supported platforms; it panics internally
	// if the OS entropy source is unavailable.
	rand.Read(entropy)
	for i, b := range entropy {
		dest[i] = encoding[int(b)&31]
	}
}
