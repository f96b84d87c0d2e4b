package refcode

import (
	"crypto/rand"
	"fmt"
)

// Alphabet excludes 0/O, 1/I/L and other glyphs clients misread when
// dictating a reference over the phone.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	Prefix = "SB-"
	length = 8
)

// Generate returns a new booking reference like "SB-7XK2M9QD". Uniqueness
// is enforced by the database index; on a collision the caller generates
// again.
func Generate() (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}

	code := make([]byte, length)
	for i, b := range buf {
		code[i] = alphabet[int(b)%len(alphabet)]
	}
	return Prefix + string(code), nil
}

// Valid reports whether s has the shape of a generated reference.
func Valid(s string) bool {
	if len(s) != len(Prefix)+length || s[:len(Prefix)] != Prefix {
		return false
	}
	for _, c := range s[len(Prefix):] {
		found := false
		for _, a := range alphabet {
			if c == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
