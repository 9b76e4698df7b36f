package atop

import (
	"fmt"

	"bootcon/cp932"
	"bootcon/fonts/fontx2"
	"bootcon/fonts/sbfont"
	"bootcon/gop"
	"bootcon/mem"
)

// TextOutput is the firmware text output capability.
//
// Every operation returns a status and none of them stops the caller: a bad
// request is rejected with ErrUnsupported and leaves the state untouched,
// undecodable text is drawn as replacement glyphs and reported with the
// ErrUnknownGlyph warning.
type TextOutput interface {
	Reset(extended bool) error
	OutputString(s []byte) error
	TestString(s []byte) error
	QueryMode(n int) (cols, rows int, err error)
	SetMode(n int) error
	SetAttribute(attr uint8) error
	ClearScreen() error
	SetCursorPosition(col, row int) error
	EnableCursor(visible bool) error
}

// Rotation selects how the console is laid on the panel.
type Rotation uint8

const (
	// RotateAuto turns the console when mode 0 is taller than wide.
	RotateAuto Rotation = iota
	RotateOff
	RotateOn
)

// Newline selects what a line feed byte does.
type Newline uint8

const (
	// NewlineCRLF writes LF as CR LF, the way C stdio output expects.
	NewlineCRLF Newline = iota
	// NewlineLF moves down one row and keeps the column.
	NewlineLF
)

// Config carries the resources a Console draws with. Only Font is needed;
// the zero value uses the built-in font.
type Config struct {
	Font     *sbfont.Font // single-byte glyphs, sbfont.Builtin() if nil
	Wide     *fontx2.Font // double-byte glyphs, optional
	Codepage *cp932.Table // Unicode to double-byte codes, optional
	Pool     mem.Pool     // scratch buffers, an unlimited heap if nil

	Rotation Rotation
	Newline  Newline

	// Resync reports a multi-byte sequence cut short by an ASCII byte as a
	// replacement glyph and then prints the ASCII byte. By default both are
	// dropped.
	Resync bool
}

// Mode is a snapshot of the console's visible state.
type Mode struct {
	MaxMode       int
	Mode          int
	Attribute     uint8
	CursorColumn  int
	CursorRow     int
	CursorVisible bool
}

// Console is a TextOutput drawn on a gop.Device.
type Console struct {
	draw    compositor
	res     resolver
	dec     decoder
	newline Newline

	mode     int // index into modeTemplates, -1 before the first SetMode
	modeCols int
	modeRows int
	attr     uint8
	fg, bg   gop.Pixel

	cols, rows int
	padX, padY int

	fontW, fontH int
	lineH        int
	fontOffset   int // glyph top within its line
	wideOffset   int

	col, row int
	visible  bool
}

var _ TextOutput = (*Console)(nil)

// New creates the console on dev, selects the default attribute and mode 0
// and clears the screen. When mode 0 does not fit the font the console
// falls back to the mode filling the screen.
func New(dev gop.Device, cfg Config) (*Console, error) {
	if dev == nil {
		return nil, fmt.Errorf("atop: no graphics device: %w", ErrDeviceError)
	}
	if cfg.Font == nil {
		f, err := sbfont.Builtin()
		if err != nil {
			return nil, fmt.Errorf("atop: %w: %w", ErrDeviceError, err)
		}
		cfg.Font = f
	}
	if cfg.Pool == nil {
		cfg.Pool = mem.NewHeap(0)
	}

	info := dev.Info()
	if info.HorizontalResolution <= 0 || info.VerticalResolution <= 0 {
		return nil, fmt.Errorf("atop: resolution %dx%d: %w", info.HorizontalResolution, info.VerticalResolution, ErrDeviceError)
	}
	rotate := cfg.Rotation == RotateOn
	if cfg.Rotation == RotateAuto {
		if m0, err := dev.QueryMode(0); err == nil {
			rotate = m0.HorizontalResolution < m0.VerticalResolution
		} else {
			tracer().Infof("atop: mode 0 unavailable (%v), using current mode", err)
			rotate = info.HorizontalResolution < info.VerticalResolution
		}
	}

	c := &Console{
		draw: compositor{
			dev:    dev,
			pool:   cfg.Pool,
			rotate: rotate,
			physW:  info.HorizontalResolution,
			physH:  info.VerticalResolution,
		},
		res: resolver{
			font:     cfg.Font,
			wide:     cfg.Wide,
			codepage: cfg.Codepage,
		},
		dec:     decoder{resync: cfg.Resync},
		newline: cfg.Newline,
		mode:    -1,
		fontW:   cfg.Font.Width(),
		fontH:   cfg.Font.Height(),
	}
	c.lineH = lineHeight(c.fontH)
	c.fontOffset = (c.lineH - c.fontH) / 2
	if cfg.Wide != nil {
		c.wideOffset = max(0, (c.lineH-cfg.Wide.Height())/2)
	}
	c.draw.allocStaging()

	_ = c.SetAttribute(DefaultAttribute)
	if err := c.SetMode(0); err != nil {
		tracer().Infof("atop: mode 0 does not fit %dx%d glyphs, filling the screen", c.fontW, c.fontH)
		_ = c.SetMode(MaxMode - 1)
	}
	if c.cols <= 0 || c.rows <= 0 {
		return nil, fmt.Errorf("atop: %dx%d glyphs do not fit the screen: %w", c.fontW, c.fontH, ErrUnsupported)
	}
	tracer().Debugf("atop: %dx%d console on %dx%d, rotated=%v", c.cols, c.rows, c.draw.physW, c.draw.physH, rotate)
	return c, nil
}

// screenSize is the logical screen resolution.
func (c *Console) screenSize() (w, h int) {
	if c.draw.rotate {
		return c.draw.physH, c.draw.physW
	}
	return c.draw.physW, c.draw.physH
}

func (c *Console) colX(col int) int { return c.padX + c.fontW*col }
func (c *Console) rowY(row int) int { return c.padY + c.lineH*row }

// fillCells paints w x h cells starting at (col, row).
func (c *Console) fillCells(col, row, w, h int, color gop.Pixel) {
	c.draw.fillRect(c.colX(col), c.rowY(row), c.fontW*w, c.lineH*h, color)
}

// Size returns the grid in cells.
func (c *Console) Size() (cols, rows int) { return c.cols, c.rows }

// Rotated reports whether the console is turned on the panel.
func (c *Console) Rotated() bool { return c.draw.rotate }

// Mode returns a snapshot of the console state.
func (c *Console) Mode() Mode {
	return Mode{
		MaxMode:       MaxMode,
		Mode:          c.mode,
		Attribute:     c.attr,
		CursorColumn:  c.col,
		CursorRow:     c.row,
		CursorVisible: c.visible,
	}
}

// Reset recomputes the grid for the current mode, blanks the whole screen
// and homes the cursor.
func (c *Console) Reset(extended bool) error {
	scrW, scrH := c.screenSize()
	c.draw.fillRect(0, 0, scrW, scrH, 0)

	c.cols = c.modeCols
	if c.cols == 0 {
		c.cols = scrW / c.fontW
	}
	c.rows = c.modeRows
	if c.rows == 0 {
		c.rows = scrH / c.lineH
	}
	c.padX = max(0, (scrW-c.cols*c.fontW)/2) &^ 3
	c.padY = max(0, (scrH-c.rows*c.lineH)/2) &^ 3

	return c.ClearScreen()
}

// QueryMode returns the grid of mode n. The current mode reports the live
// grid and the last mode the grid that fills the screen.
func (c *Console) QueryMode(n int) (cols, rows int, err error) {
	if n < 0 || n >= MaxMode {
		return 0, 0, fmt.Errorf("atop: mode %d: %w", n, ErrUnsupported)
	}
	if n == c.mode {
		return c.cols, c.rows, nil
	}
	t := modeTemplates[n]
	if t.cols == 0 || t.rows == 0 {
		scrW, scrH := c.screenSize()
		return scrW / c.fontW, scrH / c.lineH, nil
	}
	return t.cols, t.rows, nil
}

// SetMode switches to mode n and resets the console. A mode whose cells
// would be smaller than the font is rejected and nothing changes.
func (c *Console) SetMode(n int) error {
	if n < 0 || n >= MaxMode {
		return fmt.Errorf("atop: mode %d: %w", n, ErrUnsupported)
	}
	if n == c.mode {
		return nil
	}
	t := modeTemplates[n]
	if t.cols > 0 && t.rows > 0 {
		scrW, scrH := c.screenSize()
		if scrW/t.cols < c.fontW || scrH/t.rows < c.fontH {
			return fmt.Errorf("atop: mode %d (%dx%d) cells smaller than %dx%d font: %w",
				n, t.cols, t.rows, c.fontW, c.fontH, ErrUnsupported)
		}
	}
	c.mode = n
	c.modeCols, c.modeRows = t.cols, t.rows
	return c.Reset(false)
}

// SetAttribute sets the colors: the low nibble is the foreground and the
// high nibble the background palette index. 0 selects DefaultAttribute.
func (c *Console) SetAttribute(attr uint8) error {
	if attr == 0 {
		attr = DefaultAttribute
	}
	old := c.setCursor(false)
	c.attr = attr
	c.fg = Color(attr)
	c.bg = Color(attr >> 4)
	c.setCursor(old)
	return nil
}

// ClearScreen fills the grid with the background color and homes the
// cursor.
func (c *Console) ClearScreen() error {
	old := c.setCursor(false)
	c.fillCells(0, 0, c.cols, c.rows, c.bg)
	c.col, c.row = 0, 0
	c.setCursor(old)
	return nil
}

// SetCursorPosition moves the cursor. Positions off the grid are rejected.
func (c *Console) SetCursorPosition(col, row int) error {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return fmt.Errorf("atop: cursor (%d,%d) outside %dx%d: %w", col, row, c.cols, c.rows, ErrUnsupported)
	}
	old := c.setCursor(false)
	c.col, c.row = col, row
	c.setCursor(old)
	return nil
}

// EnableCursor shows or hides the underline cursor.
func (c *Console) EnableCursor(visible bool) error {
	c.setCursor(visible)
	return nil
}

// setCursor draws or erases the cursor and returns the previous visibility.
func (c *Console) setCursor(visible bool) bool {
	old := c.visible
	c.visible = visible
	if c.col < 0 || c.col >= c.cols || c.row < 0 || c.row >= c.rows {
		return old
	}
	x := c.colX(c.col)
	y := c.rowY(c.row) + c.lineH - cursorHeight
	switch {
	case visible:
		c.draw.fillRect(x, y, c.fontW, cursorHeight, c.fg)
	case old:
		c.draw.fillRect(x, y, c.fontW, cursorHeight, c.bg)
	}
	return old
}

// OutputString decodes and draws s at the cursor. Decoder state carries
// over to the next call, so a sequence may be split between calls.
func (c *Console) OutputString(s []byte) error {
	old := c.setCursor(false)
	unknown := 0
	emit := func(r rune) {
		if r == '\n' && c.newline == NewlineCRLF {
			c.put('\r')
		}
		if !c.put(r) {
			unknown++
		}
	}
	for _, b := range s {
		c.dec.feed(b, emit)
	}
	c.setCursor(old)
	if unknown > 0 {
		return fmt.Errorf("atop: %d characters without glyph: %w", unknown, ErrUnknownGlyph)
	}
	return nil
}

// Write implements io.Writer. Replacement glyphs are not an error.
func (c *Console) Write(p []byte) (int, error) {
	if err := c.OutputString(p); err != nil && !IsWarning(err) {
		return 0, err
	}
	return len(p), nil
}

// TestString reports ErrUnsupported if any character of s would be drawn
// as the replacement glyph. Nothing is drawn and the decoder is left as it
// was.
func (c *Console) TestString(s []byte) error {
	d := c.dec
	bad := rune(-1)
	emit := func(r rune) {
		if bad < 0 && !c.res.supported(r) {
			bad = r
		}
	}
	for _, b := range s {
		d.feed(b, emit)
	}
	if bad >= 0 {
		return fmt.Errorf("atop: no glyph for %U: %w", bad, ErrUnsupported)
	}
	return nil
}

// put draws one decoded rune and advances the cursor. It returns false
// when the replacement glyph was drawn.
func (c *Console) put(r rune) bool {
	g := c.res.resolve(r)
	ok := true

	switch g.kind {
	case glyphNone:
		return true

	case glyphNarrow:
		c.fillCells(c.col, c.row, 1, 1, c.bg)
		if r > 0x20 {
			c.draw.drawPattern(c.colX(c.col), c.rowY(c.row)+c.fontOffset, c.fontW, c.fontH, g.bits, c.fg)
		}
		c.col++

	case glyphWide, glyphFiller:
		if c.col+2 > c.cols {
			c.col = c.cols
			c.wrap()
		}
		c.fillCells(c.col, c.row, 2, 1, c.bg)
		if g.kind == glyphWide {
			wide := c.res.wide
			c.draw.drawPattern(c.colX(c.col), c.rowY(c.row)+c.wideOffset, wide.Width(), wide.Height(), g.bits, c.fg)
		} else {
			c.fillCells(c.col, c.row, min(3, c.cols-c.col), 1, c.fg)
		}
		c.col += 2

	case glyphUnsupported:
		c.fillCells(c.col, c.row, 1, 1, c.fg)
		if bits, found := c.res.font.Glyph('?'); found {
			c.draw.drawPattern(c.colX(c.col), c.rowY(c.row)+c.fontOffset, c.fontW, c.fontH, bits, c.bg)
		}
		c.col++
		ok = false

	case glyphBackspace:
		if c.col > 0 {
			c.col--
		}

	case glyphReturn:
		c.col = 0

	case glyphLineFeed:
		c.row++
	}

	c.wrap()
	return ok
}

// wrap moves a cursor past the right edge to the next line and scrolls
// when it falls off the bottom.
func (c *Console) wrap() {
	if c.col >= c.cols {
		c.col = 0
		c.row++
	}
	if c.row >= c.rows {
		c.row = c.rows - 1
		c.scroll()
	}
}

// scroll moves the grid up one line and clears the line left behind. That is
// the last grid line, or the last visible one when the grid runs past the
// bottom of the screen.
func (c *Console) scroll() {
	moved := c.draw.moveUp(c.colX(0), c.rowY(0), c.cols*c.fontW, (c.rows-1)*c.lineH, c.lineH)
	c.draw.fillRect(c.colX(0), c.rowY(0)+moved, c.cols*c.fontW, c.lineH, c.bg)
}
