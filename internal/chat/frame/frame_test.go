package frame

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeClient(test *testing.T) {
	f := EncodeClient("alice", "hello")
	raw := Decode(f)

	require.Len(test, raw, Size)
	assert.Equal(test, "alice: hello", f.Text())
	assert.Equal(test, "alice: hello", string(raw[:len("alice: hello")]))
	assert.Equal(test, make([]byte, Size-len("alice: hello")), raw[len("alice: hello"):], "padding must be zero")
}

func TestEncodeClient_Truncates(test *testing.T) {
	long := strings.Repeat("x", 2*Size)
	f := EncodeClient("bob", long)

	assert.Len(test, Decode(f), Size)
	assert.Len(test, f.Text(), MaxText)
	assert.Equal(test, byte(0), f[Size-1], "last byte must stay zero")
	assert.True(test, strings.HasPrefix(f.Text(), "bob: xxx"))
}

func TestEncodeClient_KeepsRunesWhole(test *testing.T) {
	// "⌘" is 3 bytes long, "bo: " + 83 runes = 253 bytes, the 84th rune would be split
	text := strings.Repeat("⌘", 90)
	f := EncodeClient("bo", text)

	assert.True(test, utf8.ValidString(f.Text()), "truncated text %q", f.Text())
	assert.Equal(test, len("bo: ")+83*3, len(f.Text()))
	assert.Len(test, Decode(f), Size)
}

func Test_fit(test *testing.T) {
	cases := []struct {
		s        string
		n        int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"", 0, ""},
		{"⌘⌘", 6, "⌘⌘"},
		{"⌘⌘", 5, "⌘"},
		{"⌘⌘", 4, "⌘"},
		{"⌘⌘", 3, "⌘"},
		{"⌘", 2, ""},
		{"a⌘", 3, "a"},
		{"😀😀", 7, "😀"},
		{"Hello, 世界", 9, "Hello, "},
		{"Hello, 世界!", 13, "Hello, 世界"},
		// no rune start at all
		{"\x8c\x8c\x8c\x8c\x8c", 3, "\x8c\x8c\x8c"},
		// broken sequence before the cut rune is kept
		{"\xe2\x8c\xe2\x8c\x98", 3, "\xe2\x8c"},
	}

	for _, c := range cases {
		actual := fit(c.s, c.n)
		if actual != c.expected {
			test.Errorf("fit(%q, %d): expected %q, actual %q", c.s, c.n, c.expected, actual)
		}
	}
}

func TestEncodeRelay(test *testing.T) {
	original := EncodeClient("alice", "hello")
	f := EncodeRelay("127.0.0.1", original)

	assert.Equal(test, "(127.0.0.1) alice: hello", f.Text())
	assert.Len(test, Decode(f), Size)

	msg, ok := DecodeRelay(f)
	require.True(test, ok)
	assert.Equal(test, Message{Prefix: "127.0.0.1", Body: "alice: hello"}, msg)
}

func TestEncodeRelay_CutsPayload(test *testing.T) {
	original := EncodeClient("alice", strings.Repeat("y", Size))
	f := EncodeRelay("2001:db8::68", original)

	assert.Len(test, Decode(f), Size)
	assert.Len(test, f.Text(), MaxText)
	assert.True(test, strings.HasPrefix(f.Text(), "(2001:db8::68) alice: yyy"))
}

func TestEncodeRelay_LongAddress(test *testing.T) {
	ip := strings.Repeat("1", Size)
	f := EncodeRelay(ip, EncodeClient("alice", "hello"))

	assert.Len(test, Decode(f), Size)
	assert.Equal(test, "("+ip[:MaxText-1], f.Text())
}

func TestDecodeClient(test *testing.T) {
	cases := []struct {
		f        Frame
		expected Message
		ok       bool
	}{
		{EncodeClient("alice", "hello"), Message{"alice", "hello"}, true},
		{EncodeClient("alice", "a: b"), Message{"alice", "a: b"}, true},
		{EncodeClient("", "hello"), Message{"", "hello"}, true},
		{New("no separator"), Message{Body: "no separator"}, false},
	}
	for _, c := range cases {
		msg, ok := DecodeClient(c.f)
		assert.Equal(test, c.ok, ok, "frame %q", c.f.Text())
		assert.Equal(test, c.expected, msg, "frame %q", c.f.Text())
	}
}

func TestDecodeRelay_NotRelayed(test *testing.T) {
	for _, text := range []string{"alice: hello", "(unterminated", ""} {
		msg, ok := DecodeRelay(New(text))
		assert.False(test, ok, text)
		assert.Equal(test, text, msg.Body)
	}
}

func TestReadFrame_PartialReads(test *testing.T) {
	first, second := EncodeClient("alice", "one"), EncodeClient("bob", "two")
	stream := append(Decode(first), Decode(second)...)
	r := iotest.OneByteReader(bytes.NewReader(stream))

	f, err := ReadFrame(r)
	require.NoError(test, err)
	assert.Equal(test, first, f)

	f, err = ReadFrame(r)
	require.NoError(test, err)
	assert.Equal(test, second, f)

	_, err = ReadFrame(r)
	assert.Equal(test, io.EOF, err)
}

func TestReadFrame_Short(test *testing.T) {
	raw := Decode(EncodeClient("alice", "hello"))
	_, err := ReadFrame(bytes.NewReader(raw[:Size/2]))
	assert.True(test, IsShort(err), "unexpected error %v", err)
}

func TestWriteFrame(test *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(test, WriteFrame(&buf, EncodeClient("alice", "hello")))
	require.NoError(test, WriteFrame(&buf, New("")))
	assert.Equal(test, 2*Size, buf.Len())
}
