// Package frame implements fixed-size chat frames.
//
// Every frame on the wire is exactly Size bytes. There is no length field and no
// delimiter: text is zero padded up to the frame size and cut when it does not fit.
package frame

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	// Size - length in bytes of every frame.
	Size = 255
	// MaxText - max length of text carried by a frame, the last byte is always zero.
	MaxText = Size - 1

	nameSeparator = ": "
)

// ErrShortFrame - returned when a stream ends in the middle of a frame.
var ErrShortFrame = io.ErrUnexpectedEOF

// Frame - single fixed-size protocol unit.
type Frame [Size]byte

// Message - named parts of frame text.
// For client frames Prefix is the display name, for relayed frames it is the sender address.
type Message struct {
	Prefix string
	Body   string
}

// New - builds frame from text, cuts the text to MaxText bytes without breaking UTF-8 sequences.
func New(text string) Frame {
	f := Frame{}
	copy(f[:], fit(text, MaxText))
	return f
}

// EncodeClient - builds frame sent from client to server.
func EncodeClient(name, text string) Frame {
	return New(name + nameSeparator + text)
}

// EncodeRelay - builds frame sent from server to other clients on behalf of original sender.
// The sender address goes first, the payload is cut when it does not fit.
func EncodeRelay(remoteIP string, original Frame) Frame {
	return New("(" + remoteIP + ") " + original.Text())
}

// Decode - returns raw frame bytes.
func Decode(f Frame) []byte {
	b := make([]byte, Size)
	copy(b, f[:])
	return b
}

// Text - returns frame text without padding.
func (f Frame) Text() string {
	if i := bytes.IndexByte(f[:], 0); i >= 0 {
		return string(f[:i])
	}
	return string(f[:])
}

// DecodeClient - splits client frame into display name and user text.
func DecodeClient(f Frame) (Message, bool) {
	text := f.Text()
	i := strings.Index(text, nameSeparator)
	if i < 0 {
		return Message{Body: text}, false
	}
	return Message{Prefix: text[:i], Body: text[i+len(nameSeparator):]}, true
}

// DecodeRelay - splits relayed frame into sender address and original text.
func DecodeRelay(f Frame) (Message, bool) {
	text := f.Text()
	if !strings.HasPrefix(text, "(") {
		return Message{Body: text}, false
	}
	i := strings.Index(text, ") ")
	if i < 0 {
		return Message{Body: text}, false
	}
	return Message{Prefix: text[1:i], Body: text[i+2:]}, true
}

// ReadFrame - reads exactly one frame, accumulating partial reads.
// Returns io.EOF if the stream is closed on a frame boundary and ErrShortFrame otherwise.
func ReadFrame(r io.Reader) (Frame, error) {
	f := Frame{}
	_, err := io.ReadFull(r, f[:])
	return f, err
}

// WriteFrame - writes whole frame.
func WriteFrame(w io.Writer, f Frame) error {
	n, err := w.Write(f[:])
	if err == nil && n < Size {
		err = io.ErrShortWrite
	}
	return err
}

// IsShort - reports whether err means the stream ended in the middle of a frame.
func IsShort(err error) bool {
	return errors.Is(err, ErrShortFrame)
}

// fit - cuts s to at most n bytes, a rune crossing the cut is dropped entirely.
// Bytes which are not valid UTF-8 are cut as is.
func fit(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for i := n; i >= 0 && n-i < utf8.UTFMax; i-- {
		if !utf8.RuneStart(s[i]) {
			continue
		}
		if r, size := utf8.DecodeRuneInString(s[i:]); r != utf8.RuneError && i+size > n {
			return s[:i]
		}
		break
	}
	return s[:n]
}
