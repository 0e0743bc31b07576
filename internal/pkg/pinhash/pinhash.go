package pinhash

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"regexp"

	"golang.org/x/crypto/pbkdf2"
)

// Deliberately slow parameters. Changing them invalidates every stored hash,
// so they are constants rather than configuration.
const (
	iterations = 150_000
	keyLen     = 64
	saltLen    = 32
)

var pinPattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// ValidFormat reports whether pin is 4 to 6 decimal digits.
func ValidFormat(pin string) bool {
	return pinPattern.MatchString(pin)
}

// NewSalt returns a fresh 32-byte random salt. Each SetPin call gets its own.
func NewSalt() ([]byte, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return b, nil
}

// Derive computes the PBKDF2-SHA512 hash of pin with the given salt.
// Pure function: the same (pin, salt) always yields the same hash.
func Derive(pin string, salt []byte) []byte {
	return pbkdf2.Key([]byte(pin), salt, iterations, keyLen, sha512.New)
}

// Equal compares two derived hashes in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
