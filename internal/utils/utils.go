// internal/utils/utils.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateID returns a random request identifier.
func GenerateID() string {
	return uuid.NewString()
}

// HashSHA256 - هش هگزادسیمال برای کلید کش و لاگ بدون متن خام
func HashSHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NormalizeSpaces collapses every run of whitespace into a single space
// and trims both ends.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RemoveInvalidChars drops control characters, tatweel, Arabic harakat
// (fathatan through sukun) and the zero-width marks except ZWNJ, which
// Persian orthography needs.
func RemoveInvalidChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200c':
			return r
		case '\u0640', '\u200b', '\u200d', '\u200e', '\u200f', '\ufeff':
			return -1
		}
		if r >= '\u064b' && r <= '\u0652' {
			return -1
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
