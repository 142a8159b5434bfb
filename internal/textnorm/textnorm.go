// Package textnorm produces the fuzzy comparison key shared by the order-text
// parser, the reservation matcher, and the availability filters. Parsing and
// matching must never normalize text independently of each other; every
// comparison goes through Key.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key canonicalizes arbitrary text into a comparable form: trim, Unicode NFKC
// (full-width and composed variants fold together), lower-case, then drop
// every rune that is not an ASCII alphanumeric, underscore, or CJK ideograph.
// The result is for comparison only and is never shown to users.
func Key(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keep(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r == '_':
		return true
	case r >= 0x4E00 && r <= 0x9FA5:
		return true
	}
	return false
}

// HasCJK reports whether s contains at least one CJK ideograph.
func HasCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FA5 {
			return true
		}
	}
	return false
}
