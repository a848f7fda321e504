// Package client implements chat client session.
//
// Session runs two independent directions of traffic over single connection:
// the sender writes frames built from local input, the receiver reads and displays frames
// relayed by the server. Both directions share the connection without synchronization,
// since one only writes and the other only reads.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/wtask/framechat/internal/chat/frame"
)

var (
	// ErrConnectionClosed - returns when server has closed the connection.
	ErrConnectionClosed = errors.New("client.Session: connection closed by server")
	// ErrInputClosed - returns by sender when local input is over.
	ErrInputClosed = errors.New("client.Session: input closed")
	// ErrEmptyName - returns when display name is empty.
	ErrEmptyName = errors.New("client.Session: display name is empty")
)

// Session - single chat connection with chosen display name.
type Session struct {
	conn   net.Conn
	name   string
	sender *color.Color
}

// NewSession - builds session over established connection.
func NewSession(conn net.Conn, name string) (*Session, error) {
	if conn == nil {
		return nil, errors.New("client.NewSession: connection is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Session{
		conn:   conn,
		name:   name,
		sender: color.New(color.FgCyan, color.Bold),
	}, nil
}

// Dial - resolves host and connects to chat server.
func Dial(ctx context.Context, host string, port uint) (net.Conn, error) {
	if host == "" {
		return nil, errors.New("client.Dial: host is required")
	}
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)))
	if err != nil {
		return nil, fmt.Errorf("client.Dial: %w", err)
	}
	return conn, nil
}

// Name - returns display name.
func (s *Session) Name() string {
	return s.name
}

// Run - runs sender and receiver concurrently until one of them stops.
// End of input finishes session without error, the connection is closed in any case.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	g, gctx := errgroup.WithContext(ctx)
	lines := ScanLines(gctx, in)
	g.Go(func() error {
		return s.Send(gctx, lines)
	})
	g.Go(func() error {
		return s.Receive(gctx, out)
	})
	g.Go(func() error {
		// releases blocked reader when session is over
		<-gctx.Done()
		s.conn.Close()
		return nil
	})
	err := g.Wait()
	if errors.Is(err, ErrInputClosed) {
		return nil
	}
	return err
}

// Send - writes frame for every line until lines channel is closed.
func (s *Session) Send(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return ErrInputClosed
			}
			if err := frame.WriteFrame(s.conn, frame.EncodeClient(s.name, line)); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("client.Send: %w", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Receive - reads frames and displays them line by line.
// Returns on the first read error, ErrConnectionClosed means the server has gone.
func (s *Session) Receive(ctx context.Context, out io.Writer) error {
	for {
		f, err := frame.ReadFrame(s.conn)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || frame.IsShort(err) {
				return ErrConnectionClosed
			}
			return fmt.Errorf("client.Receive: %w", err)
		}
		if err := s.display(out, f); err != nil {
			return fmt.Errorf("client.Receive: %w", err)
		}
	}
}

func (s *Session) display(out io.Writer, f frame.Frame) error {
	msg, ok := frame.DecodeRelay(f)
	if !ok {
		_, err := fmt.Fprintln(out, frame.Sanitize(msg.Body))
		return err
	}
	_, err := fmt.Fprintln(out, s.sender.Sprintf("(%s)", msg.Prefix), frame.Sanitize(msg.Body))
	return err
}

// PromptName - asks display name once.
// Prompt is skipped if w is nil.
func PromptName(r io.Reader, w io.Writer) (string, error) {
	if w != nil {
		fmt.Fprint(w, "Enter your chatroom name: ")
	}
	line, err := readLine(reader(r))
	if err != nil && line == "" {
		return "", fmt.Errorf("client.PromptName: %w", err)
	}
	name := strings.TrimSpace(line)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// ScanLines - reads lines in background until the input is over or ctx is done.
// Line endings are removed.
func ScanLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	br := reader(r)
	go func() {
		defer close(lines)
		for {
			line, err := readLine(br)
			if err != nil && line == "" {
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func reader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}
