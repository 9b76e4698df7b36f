package atop

import "bootcon/gop"

// DefaultAttribute is light gray on black. SetAttribute(0) selects it.
const DefaultAttribute = 0x07

// palette is the 16-color VGA text palette.
var palette = [16]gop.Pixel{
	0x000000, 0x0000AA, 0x00AA00, 0x00AAAA, 0xAA0000, 0xAA00AA, 0xAA5500, 0xAAAAAA,
	0x555555, 0x5555FF, 0x55FF55, 0x55FFFF, 0xFF5555, 0xFF55FF, 0xFFFF55, 0xFFFFFF,
}

// Color returns the palette entry for index i (0..15).
func Color(i uint8) gop.Pixel { return palette[i&0x0F] }

type modeTemplate struct {
	cols, rows int
}

// modeTemplates lists the text modes. The zero entry fills the screen with
// as many cells as fit.
var modeTemplates = [...]modeTemplate{
	{80, 25},
	{80, 50},
	{100, 31},
	{0, 0},
}

// MaxMode is the number of text modes.
const MaxMode = len(modeTemplates)

// cursorHeight is the underline cursor thickness in pixels.
const cursorHeight = 2

// lineHeight adds 3/16 of the glyph height as leading.
func lineHeight(fontH int) int { return fontH + (fontH*3)>>4 }
