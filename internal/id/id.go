package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// guidLen is the length of a GnuCash GUID: 32 hex digits, no dashes.
const guidLen = 32

// NewGUID returns a random GUID in GnuCash form, e.g.
// "9f8e3c1a0b2d4e5f8a7b6c5d4e3f2a1b".
func NewGUID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// ValidGUID reports whether s is 32 hex digits.
func ValidGUID(s string) bool {
	if len(s) != guidLen {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
