package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(test *testing.T) {
	cases := []struct {
		in, expected string
	}{
		{"hello", "hello"},
		{"hello\n", "hello "},
		{"a\r\n\n\nb", "a b"},
		{"tab\there", "tab here"},
		{"bell\a and \x1b[31mescape", "bell and [31mescape"},
		{"bad \xe2\x8c tail", "bad  tail"},
		{"Hello, 世界", "Hello, 世界"},
	}
	for _, c := range cases {
		assert.Equal(test, c.expected, Sanitize(c.in), "input %q", c.in)
	}
}
