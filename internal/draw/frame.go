package draw

// Background is the glyph every cell holds until something is drawn over it.
const Background = ' '

// Frame is a fixed-size grid of glyphs: one snapshot of the board for a tick.
// Cells are stored in a flat slice: [y * width + x].
type Frame struct {
	width  int
	height int
	cells  []rune
}

// Drawable is anything that can render itself into a frame.
type Drawable interface {
	Draw(f *Frame)
}

// NewFrame creates a frame of the given size with every cell set to Background.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f := &Frame{
		width:  width,
		height: height,
		cells:  make([]rune, width*height),
	}
	f.Clear()
	return f
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the number of rows.
func (f *Frame) Height() int {
	return f.height
}

// Contains reports whether (x, y) addresses a cell of the frame.
func (f *Frame) Contains(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Set writes a glyph at (x, y). Out-of-range writes are rejected and return false.
func (f *Frame) Set(x, y int, glyph rune) bool {
	if !f.Contains(x, y) {
		return false
	}
	f.cells[y*f.width+x] = glyph
	return true
}

// At returns the glyph at (x, y), or Background when out of range.
func (f *Frame) At(x, y int) rune {
	if !f.Contains(x, y) {
		return Background
	}
	return f.cells[y*f.width+x]
}

// Clear resets every cell to Background.
func (f *Frame) Clear() {
	for i := range f.cells {
		f.cells[i] = Background
	}
}

// Compose draws each drawable into f in order. Later writes win on overlap.
func Compose(f *Frame, drawables ...Drawable) {
	for _, d := range drawables {
		d.Draw(f)
	}
}
