package sbfont

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FromFace rasterizes codes [FirstCode, last) of face into a width x height
// cell font. Glyph coverage of at least one half becomes a set bit. Codes
// the face has no glyph for stay blank.
func FromFace(face font.Face, width, height int, last rune) (*Font, error) {
	if face == nil {
		return nil, fmt.Errorf("sbfont: nil face: %w", ErrMalformed)
	}
	if last <= FirstCode || last > LastCode {
		return nil, fmt.Errorf("sbfont: last code %#x: %w", last, ErrMalformed)
	}
	if width <= 0 || width > MaxSize || height <= 0 || height > MaxSize {
		return nil, fmt.Errorf("sbfont: glyph size %dx%d: %w", width, height, ErrMalformed)
	}

	ascent := CellAscent(face, height)
	size := (width + 7) / 8 * height
	data := make([]byte, int(last-FirstCode)*size)
	for c := rune(FirstCode); c < last; c++ {
		Rasterize(face, c, width, height, ascent, data[int(c-FirstCode)*size:])
	}

	f, err := New(width, height, data)
	if err != nil {
		return nil, err
	}
	f.ascent = ascent
	return f, nil
}

// CellAscent is the baseline position that centers the line of face in a
// cell height pixels tall.
func CellAscent(face font.Face, height int) int {
	m := face.Metrics()
	lineH := (m.Ascent + m.Descent).Ceil()
	return m.Ascent.Ceil() + (height-lineH)/2
}

// Rasterize draws the glyph for c into dst, a width x height 1-bpp cell with
// rows padded to whole bytes and the baseline at ascent. Coverage of at
// least one half becomes a set bit. It reports false when face has no glyph
// for c.
func Rasterize(face font.Face, c rune, width, height, ascent int, dst []byte) bool {
	dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, ascent), c)
	if !ok {
		return false
	}
	wb := (width + 7) / 8
	r := dr.Intersect(image.Rect(0, 0, width, height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			a := color.AlphaModel.Convert(mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y)).(color.Alpha).A
			if a >= 0x80 {
				dst[y*wb+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return true
}

var builtin = sync.OnceValues(func() (*Font, error) {
	return FromFace(basicfont.Face7x13, 8, 16, 0x80)
})

// Builtin returns the 8x16 font compiled into the loader, rasterized from
// basicfont.Face7x13 and centered in the cell. Every call returns the same
// font.
func Builtin() (*Font, error) {
	f, err := builtin()
	if err != nil {
		return nil, fmt.Errorf("sbfont: builtin font: %w", err)
	}
	return f, nil
}
