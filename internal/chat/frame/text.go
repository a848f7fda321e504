package frame

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize - prepares frame text for display.
// Invalid UTF-8 sequences and control characters are dropped,
// any run of line breaks becomes single space as well as any other space character.
func Sanitize(s string) string {
	str := strings.Builder{}
	str.Grow(len(s))
	var prev rune
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			// drop
			continue
		case r == '\n' || r == '\r':
			if prev != '\n' && prev != '\r' {
				str.WriteByte(' ')
			}
		case unicode.IsSpace(r):
			str.WriteByte(' ')
		case unicode.IsControl(r):
			// drop
		default:
			str.WriteRune(r)
		}
		prev = r
	}
	return str.String()
}
