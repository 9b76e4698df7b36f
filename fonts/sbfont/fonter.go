package sbfont

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Fonter adapts f to tinyfont so boot diagnostics can be drawn with the
// console's own font before (or without) a console.
//
// Concurrent access is not safe due to internal glyph reuse.
func (f *Font) Fonter() tinyfont.Fonter {
	return &fonter{f: f, g: glyph{f: f}}
}

type fonter struct {
	f *Font
	g glyph
}

type glyph struct {
	f *Font
	r rune
}

func (g *glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	bits, ok := g.f.Glyph(g.r)
	if !ok {
		bits, ok = g.f.Glyph('?')
		if !ok {
			return
		}
	}

	top := y - int16(g.f.ascent)
	wb := g.f.widthBytes
	for row := 0; row < g.f.height; row++ {
		for col := 0; col < g.f.width; col++ {
			if bits[row*wb+col/8]&(0x80>>(col%8)) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), top+int16(row), c)
		}
	}
}

func (g *glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    uint8(g.f.width),
		Height:   uint8(g.f.height),
		XAdvance: uint8(g.f.width),
		XOffset:  0,
		YOffset:  -int8(g.f.ascent),
	}
}

func (f *fonter) GetYAdvance() uint8 { return uint8(f.f.height) }

func (f *fonter) GetGlyph(r rune) tinyfont.Glypher {
	f.g.r = r
	return &f.g
}
