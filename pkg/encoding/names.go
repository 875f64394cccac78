// Package encoding provides string helpers for bound file formats:
// fixed-width char arrays and case-insensitive material names.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// FoldName returns the case-folded form of a material name.
// Two names refer to the same material when their folded forms are equal.
func FoldName(name string) string {
	folded, _, err := transform.String(folder, norm.NFC.String(name))
	if err != nil {
		return strings.ToLower(name)
	}
	return folded
}

// EqualNames reports whether a and b name the same material.
func EqualNames(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// UndupeName strips a host duplicate suffix such as ".001".
// Everything from the first '.' on is dropped.
func UndupeName(name string) string {
	if idx := strings.IndexByte(name, '.'); idx != -1 {
		return name[:idx]
	}
	return name
}

// FixedString converts a string to a fixed-size null-padded byte array.
// Names longer than size are truncated on a rune boundary so the
// field never ends in a partial UTF-8 sequence.
func FixedString(s string, size int) []byte {
	result := make([]byte, size)
	s = norm.NFC.String(s)
	if len(s) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	copy(result, s)
	return result
}
