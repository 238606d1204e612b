// Package render puts frames on a terminal, writing only the cells that changed
// since the previous frame.
package render

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/metrics"
)

// Surface is a cell-addressable output, e.g. an ANSI writer or a tcell screen.
type Surface interface {
	// SetCell queues a glyph at 0-based board coordinates.
	SetCell(col, row int, glyph rune)
	// Flush pushes queued cells to the terminal.
	Flush() error
}

// Ensure the ANSI writer satisfies Surface.
var _ Surface = (*draw.ChunkWriter)(nil)

// Renderer owns a surface and the last frame put on it.
// It is not safe for concurrent use; Run gives it a single consumer goroutine.
type Renderer struct {
	surface Surface
	last    *draw.Frame
	logger  *log.Logger
}

// New creates a renderer for a width x height board. The last rendered frame
// starts blank.
func New(surface Surface, width, height int, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		surface: surface,
		last:    draw.NewFrame(width, height),
		logger:  logger,
	}
}

// Render writes frame to the surface. With force every cell is written;
// otherwise only cells that differ from the last rendered frame. The frame
// becomes the last rendered frame even if the flush fails.
func (r *Renderer) Render(frame *draw.Frame, force bool) (int, error) {
	start := time.Now()
	written := 0
	for y := 0; y < frame.Height(); y++ {
		for x := 0; x < frame.Width(); x++ {
			glyph := frame.At(x, y)
			if !force && r.last.At(x, y) == glyph {
				continue
			}
			r.surface.SetCell(x, y, glyph)
			written++
		}
	}
	r.last = frame

	metrics.FramesRendered.Inc()
	metrics.CellsWritten.Add(float64(written))

	if err := r.surface.Flush(); err != nil {
		metrics.RenderErrors.Inc()
		return written, err
	}
	r.logger.Debug("frame rendered", "cells", written, "took", time.Since(start))
	return written, nil
}

// Run renders a forced blank baseline, then every frame received until frames
// is closed, in order. Frames are never skipped: after a write error Run keeps
// consuming and returns the first error once the channel is closed.
func (r *Renderer) Run(frames <-chan *draw.Frame) error {
	var firstErr error
	record := func(err error) {
		if err == nil {
			return
		}
		if firstErr == nil {
			firstErr = err
			r.logger.Error("render failed", "err", err)
		}
	}

	_, err := r.Render(draw.NewFrame(r.last.Width(), r.last.Height()), true)
	record(err)

	for frame := range frames {
		_, err := r.Render(frame, false)
		record(err)
	}
	return firstErr
}

// Last returns the most recently rendered frame.
func (r *Renderer) Last() *draw.Frame {
	return r.last
}
