package util

import (
	"crypto/rand"
	"regexp"

	"github.com/oklog/ulid/v2"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// NewULID generates a new ULID string. Session cookies carry it, so the
// entropy comes from crypto/rand rather than a seeded math source.
func NewULID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// IsULID reports whether s is a canonical upper-case ULID.
func IsULID(s string) bool {
	if !ulidPattern.MatchString(s) {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}
