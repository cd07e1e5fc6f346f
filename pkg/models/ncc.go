package models

import (
	"regexp"
	"strings"
	"unicode"
)

// nccPattern is the DGI contributor number grammar: seven decimal digits
// followed by one uppercase Latin letter.
var nccPattern = regexp.MustCompile(`^[0-9]{7}[A-Z]$`)

// ValidNCC reports whether a value already matches the NCC grammar.
func ValidNCC(value string) bool {
	return nccPattern.MatchString(value)
}

// NormalizeNCC strips separators and noise from a raw NCC cell and
// uppercases the remainder. It does not judge validity.
func NormalizeNCC(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// ReshapeNCC attempts a best-effort rebuild of an invalid NCC from its
// normalized form: the first seven digits plus the first letter found, or
// the constant letter A when the value carries no letter. Returns false when
// fewer than seven digits are available.
func ReshapeNCC(normalized string) (string, bool) {
	var digits, letters []rune
	for _, r := range normalized {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, r)
		case unicode.IsLetter(r):
			letters = append(letters, r)
		}
	}
	if len(digits) < 7 {
		return "", false
	}
	letter := 'A'
	if len(letters) > 0 {
		letter = letters[0]
	}
	return string(digits[:7]) + string(letter), true
}
