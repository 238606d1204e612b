// Package input turns raw keyboard input into game key events.
package input

import (
	"bufio"
	"errors"
	"io"
)

// Key is a decoded game key.
type Key int

const (
	KeyLeft  Key = iota // Left arrow
	KeyRight            // Right arrow
	KeyFire             // Enter or Space
	KeyQuit             // Esc or q
)

// String returns the key name.
func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyFire:
		return "fire"
	case KeyQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Source delivers pending key events without blocking.
type Source interface {
	// Poll drains every event available right now. An error means the input
	// stream is no longer readable.
	Poll() ([]Key, error)
}

// ErrClosed is returned by Poll once the underlying reader has ended.
var ErrClosed = errors.New("input closed")

// Stream delivers input bytes read on a background goroutine via a channel.
type Stream struct {
	ch      chan byte
	errCh   chan error
	err     error
	pending []byte // Undecoded tail carried over from the previous poll
}

// Ensure Stream satisfies Source.
var _ Source = (*Stream)(nil)

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		errCh: make(chan error, 1),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = ErrClosed
				}
				s.errCh <- err
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Poll drains all available bytes (non-blocking) and decodes them into keys.
// An escape prefix at the end of a batch is held for one poll in case the rest
// of an arrow key sequence is still in flight; if nothing follows it is an Esc.
func (s *Stream) Poll() ([]Key, error) {
	if s.err != nil {
		return nil, s.err
	}

	held := len(s.pending)
	buf := s.pending
	s.pending = nil
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	if held > 0 && len(buf) == held && !closed {
		return []Key{KeyQuit}, nil
	}

	keys, rest := decode(buf)
	if !closed {
		s.pending = rest
		return keys, nil
	}

	s.err = <-s.errCh
	if len(rest) > 0 {
		keys = append(keys, KeyQuit)
	}
	if len(keys) > 0 {
		return keys, nil
	}
	return nil, s.err
}

// decode parses raw terminal bytes into keys. rest is an incomplete escape
// sequence at the end of buf that needs more bytes to decode.
func decode(buf []byte) (keys []Key, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			if i+1 == len(buf) {
				return keys, clone(buf[i:])
			}
			if buf[i+1] != '[' {
				keys = append(keys, KeyQuit)
				continue
			}
			if i+2 == len(buf) {
				return keys, clone(buf[i:])
			}
			// CSI sequence: ESC [ <code>
			switch buf[i+2] {
			case 'C':
				keys = append(keys, KeyRight)
			case 'D':
				keys = append(keys, KeyLeft)
			}
			i += 2
			continue
		}

		if k, ok := byteKey(b); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// byteKey maps a single byte to a key.
func byteKey(b byte) (Key, bool) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl-C arrives as a byte in raw mode
		return KeyQuit, true
	case 'a', 'h':
		return KeyLeft, true
	case 'd', 'l':
		return KeyRight, true
	case ' ', '\r', '\n':
		return KeyFire, true
	}
	return 0, false
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
