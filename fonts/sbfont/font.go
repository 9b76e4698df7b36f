// Package sbfont holds fixed-width single-byte bitmap fonts.
//
// A font is one immutable blob of 1-bit-per-pixel glyphs, most significant
// bit leftmost, rows padded to whole bytes. The glyph for code c lives at
// (c-FirstCode) * Height * WidthBytes.
package sbfont

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// FirstCode is the code of the first glyph in every blob.
const FirstCode = 0x20

// LastCode is one past the highest code a single-byte font can hold.
const LastCode = 0x100

// MaxSize bounds glyph width and height in pixels.
const MaxSize = 64

// ErrMalformed is returned for blobs that do not match their declared metrics.
var ErrMalformed = errors.New("sbfont: malformed font")

func tracer() tracing.Trace {
	return tracing.Select("bootcon.fonts")
}

// Font is an immutable single-byte bitmap font.
type Font struct {
	width      int
	height     int
	widthBytes int
	ascent     int
	count      int
	data       []byte
}

// New validates data against the glyph size and returns a font over it.
// data is retained, not copied.
func New(width, height int, data []byte) (*Font, error) {
	if width <= 0 || width > MaxSize || height <= 0 || height > MaxSize {
		return nil, fmt.Errorf("sbfont: glyph size %dx%d: %w", width, height, ErrMalformed)
	}
	wb := (width + 7) / 8
	size := wb * height
	count := len(data) / size
	if count == 0 {
		return nil, fmt.Errorf("sbfont: %d bytes hold no %dx%d glyph: %w", len(data), width, height, ErrMalformed)
	}
	if count > LastCode-FirstCode {
		count = LastCode - FirstCode
	}
	tracer().Debugf("single-byte font %dx%d, %d glyphs", width, height, count)
	return &Font{
		width:      width,
		height:     height,
		widthBytes: wb,
		ascent:     height - height/4,
		count:      count,
		data:       data[:count*size],
	}, nil
}

func (f *Font) Width() int      { return f.width }
func (f *Font) Height() int     { return f.height }
func (f *Font) WidthBytes() int { return f.widthBytes }

// Ascent is the baseline position in the cell, counted from the top.
func (f *Font) Ascent() int { return f.ascent }

// GlyphSize is the byte length of one glyph.
func (f *Font) GlyphSize() int { return f.widthBytes * f.height }

// Len is the number of glyphs in the blob.
func (f *Font) Len() int { return f.count }

// Glyph returns the bitmap for code c.
func (f *Font) Glyph(c rune) ([]byte, bool) {
	if c < FirstCode || c >= LastCode {
		return nil, false
	}
	idx := int(c - FirstCode)
	if idx >= f.count {
		return nil, false
	}
	size := f.GlyphSize()
	return f.data[idx*size : (idx+1)*size], true
}

// Bytes returns the raw blob. It must not be modified.
func (f *Font) Bytes() []byte { return f.data }
