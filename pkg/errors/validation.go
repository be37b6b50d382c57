package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxKeyLength is the longest node key accepted at ingestion.
const MaxKeyLength = 256

// NormalizeKey returns the canonical form of a node key.
//
// Keys are normalized exactly once, when data is loaded, so that lookups
// never need to retry with alternative spellings. The canonical form is the
// input with surrounding whitespace removed.
//
// The validation rules are intentionally conservative:
//   - No empty keys (after trimming)
//   - No control characters
//   - Maximum length of 256 bytes
func NormalizeKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", New(ErrCodeInvalidKey, "node key cannot be empty")
	}

	if len(k) > MaxKeyLength {
		return "", New(ErrCodeInvalidKey, "node key too long (max %d characters)", MaxKeyLength)
	}

	for _, r := range k {
		if unicode.IsControl(r) {
			return "", New(ErrCodeInvalidKey, "node key contains invalid control characters")
		}
	}

	return k, nil
}

// ValidateRange checks that an option value lies within [lo, hi].
func ValidateRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be within [%g, %g], got %g", name, lo, hi, v)
	}
	return nil
}
