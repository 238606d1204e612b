// Package console is the tcell terminal backend: it owns screen setup and
// teardown and acts as both the render surface and the key source.
package console

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
)

// Console draws the board centred on a tcell screen and decodes its key events.
type Console struct {
	screen  tcell.Screen
	style   tcell.Style
	offCol  int
	offRow  int
	events  chan tcell.Event
	done    chan struct{}
	once    sync.Once
	resized atomic.Bool
}

// Open initializes the terminal (raw mode, alternate screen, hidden cursor)
// for a board of boardW x boardH cells.
func Open(boardW, boardH int) (*Console, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return New(screen, boardW, boardH)
}

// New takes over an initialized screen. The screen is finalized on error.
func New(screen tcell.Screen, boardW, boardH int) (*Console, error) {
	screen.HideCursor()
	screen.Clear()

	w, h := screen.Size()
	offCol, offRow, err := draw.BoardOffset(w, h, boardW, boardH)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	c := &Console{
		screen: screen,
		style:  tcell.StyleDefault,
		offCol: offCol,
		offRow: offRow,
		events: make(chan tcell.Event, 128),
		done:   make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

// pump forwards screen events until the screen is finalized.
func (c *Console) pump() {
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			close(c.events)
			return
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// Poll drains pending key events without blocking.
func (c *Console) Poll() ([]input.Key, error) {
	var keys []input.Key
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				if len(keys) > 0 {
					return keys, nil
				}
				return nil, input.ErrClosed
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if k, ok := keyOf(ev); ok {
					keys = append(keys, k)
				}
			case *tcell.EventResize:
				c.resized.Store(true)
			}
		default:
			return keys, nil
		}
	}
}

// keyOf maps a tcell key event to a game key.
func keyOf(ev *tcell.EventKey) (input.Key, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return input.KeyLeft, true
	case tcell.KeyRight:
		return input.KeyRight, true
	case tcell.KeyEnter:
		return input.KeyFire, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.KeyQuit, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return input.KeyFire, true
		case 'q', 'Q':
			return input.KeyQuit, true
		case 'a', 'h':
			return input.KeyLeft, true
		case 'd', 'l':
			return input.KeyRight, true
		}
	}
	return 0, false
}

// SetCell queues a glyph at 0-based board coordinates.
func (c *Console) SetCell(col, row int, glyph rune) {
	c.screen.SetContent(col+c.offCol, row+c.offRow, glyph, nil, c.style)
}

// Flush shows queued cells. After a resize the whole screen is repainted.
func (c *Console) Flush() error {
	if c.resized.Swap(false) {
		c.screen.Sync()
		return nil
	}
	c.screen.Show()
	return nil
}

// Close restores the terminal. Safe to call more than once.
func (c *Console) Close() {
	c.once.Do(func() {
		close(c.done)
		c.screen.Fini()
	})
}

// Ensure Console satisfies the input source contract.
var _ input.Source = (*Console)(nil)
