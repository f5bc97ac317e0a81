package portal

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks the basic local@domain.tld shape. Deliverability is not
// verified here.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ExtractDigits strips everything but decimal digits from s.
func ExtractDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// StripSpaces removes all whitespace, used when embedding names in generated
// file names.
func StripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
