package app

import (
	"image/color"
	"strings"

	"bootcon/fonts/sbfont"
	"bootcon/gop"

	"tinygo.org/x/tinyfont"
)

// bootScreen paints lines in the built-in font on a black screen. It needs
// no console, so it works when the console could not start.
func bootScreen(d *gop.Framebuffer, lines ...string) {
	info := d.Info()
	w, h := info.HorizontalResolution, info.VerticalResolution
	f, err := sbfont.Builtin()
	if err != nil {
		return
	}
	cols := w / f.Width()
	if cols <= 0 || h <= 0 {
		return
	}
	_ = d.Blt(gop.FillColor(0), gop.VideoFill, 0, 0, 0, 0, w, h, 0)

	font := f.Fonter()
	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	y := f.Height()
	lines = append([]string{"bootcon"}, lines...)
	for _, line := range lines {
		for line != "" {
			if y > h {
				_ = d.Display()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, int16(y), chunk, fg)
			y += f.Height()
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = d.Display()
}
