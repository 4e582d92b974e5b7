package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tendant/simple-orgs/pkg/domain"
)

// CleanName turns control characters into spaces, collapses whitespace runs
// to a single space and trims the result.
func CleanName(name string) string {
	return strings.Join(strings.Fields(replaceControlChars(name)), " ")
}

// ValidateStringLength validates that a string is within the specified length constraints.
// Length is measured in characters.
func ValidateStringLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(value)

	if min > 0 && length < min {
		return domain.Errorf(domain.ErrValidation, "%s must be at least %d characters long", field, min)
	}

	if max > 0 && length > max {
		return domain.Errorf(domain.ErrValidation, "%s must be at most %d characters long", field, max)
	}

	return nil
}

// replaceControlChars maps every control character, including newlines and
// tabs, to a space.
func replaceControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
