// Package draw holds the frame buffer and the ANSI terminal primitives used to
// put it on screen.
package draw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once for smooth network flow
// (SSH sessions), roughly one MTU.
const maxChunkSize = 1400

// ErrTerminalTooSmall is returned when the terminal cannot fit the board.
var ErrTerminalTooSmall = errors.New("terminal too small")

// ChunkWriter accumulates terminal output and writes it in chunks on Flush.
// Cells are addressed in 0-based board coordinates; the offset centres the board.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
	numBuf [20]byte      // Scratch buffer for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to every cursor position.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// MoveCursor appends an ANSI cursor position sequence. col and row are 1-based
// board coordinates; the offset is applied automatically.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// SetCell queues a single glyph at 0-based board coordinates.
func (cw *ChunkWriter) SetCell(col, row int, glyph rune) {
	cw.MoveCursor(col+1, row+1)
	cw.buf.WriteRune(glyph)
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// Pending returns the number of bytes queued since the last Flush.
func (cw *ChunkWriter) Pending() int {
	return cw.buf.Len()
}

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) error {
	_, err := io.WriteString(w, "\033[H\033[2J")
	return err
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) error {
	_, err := io.WriteString(w, "\033[?25l")
	return err
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) error {
	_, err := io.WriteString(w, "\033[?25h")
	return err
}

// EnterAltScreen switches to the alternate screen buffer.
func EnterAltScreen(w io.Writer) error {
	_, err := io.WriteString(w, "\033[?1049h")
	return err
}

// LeaveAltScreen returns to the main screen buffer.
func LeaveAltScreen(w io.Writer) error {
	_, err := io.WriteString(w, "\033[?1049l")
	return err
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// BoardOffset returns the 0-based column and row offsets that centre a board of
// boardW x boardH cells in a termW x termH terminal.
func BoardOffset(termW, termH, boardW, boardH int) (col, row int, err error) {
	if termW < boardW || termH < boardH {
		return 0, 0, fmt.Errorf("%w: need %dx%d, have %dx%d", ErrTerminalTooSmall, boardW, boardH, termW, termH)
	}
	return (termW - boardW) / 2, (termH - boardH) / 2, nil
}
