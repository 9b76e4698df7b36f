package atop

import (
	"testing"

	"bootcon/cp932"
	"bootcon/fonts/fontx2"
	"bootcon/fonts/sbfont"
	"bootcon/gop"
	"bootcon/hal"

	"github.com/stretchr/testify/require"
)

func newDevice(t *testing.T, w, h int) *gop.Framebuffer {
	t.Helper()
	d, err := gop.NewFramebuffer(hal.NewFramebuffer(w, h))
	require.NoError(t, err)
	return d
}

// stampFont is an 8x16 font whose glyphs are all different: row j of the
// glyph for c is c^j, with the bottom row left blank.
func stampFont(t *testing.T) *sbfont.Font {
	t.Helper()
	data := make([]byte, (0x80-sbfont.FirstCode)*16)
	for c := sbfont.FirstCode; c < 0x80; c++ {
		if c == ' ' {
			continue
		}
		for j := 0; j < 15; j++ {
			data[(c-sbfont.FirstCode)*16+j] = byte(c ^ j)
		}
	}
	f, err := sbfont.New(8, 16, data)
	require.NoError(t, err)
	return f
}

// CJK fixtures: あ has a glyph, 漢 is mapped but has no raster.
const (
	codeA   = 0x8140
	codeKan = 0x8141
)

func cjkResources(t *testing.T) (*fontx2.Font, *cp932.Table) {
	t.Helper()
	blob, err := cp932.Encode([]uint16{'あ', '漢'})
	require.NoError(t, err)
	tbl, err := cp932.Build(blob, nil)
	require.NoError(t, err)

	b := fontx2.NewBuilder(16, 16)
	g := make([]byte, 32)
	for i := range g {
		g[i] = 0xA5
	}
	require.NoError(t, b.Add(codeA, g))
	raw, err := b.Encode("TEST")
	require.NoError(t, err)
	wide, err := fontx2.Parse(raw)
	require.NoError(t, err)
	return wide, tbl
}

func newConsole(t *testing.T, dev gop.Device, cfg Config) *Console {
	t.Helper()
	c, err := New(dev, cfg)
	require.NoError(t, err)
	return c
}

func snapshot(d *gop.Framebuffer) [][]gop.Pixel {
	w, h := d.Size()
	pix := make([][]gop.Pixel, h)
	for y := range pix {
		pix[y] = make([]gop.Pixel, w)
		for x := range pix[y] {
			pix[y][x] = d.PixelAt(x, y)
		}
	}
	return pix
}

// requireCell checks the cell at (col, row) against a glyph drawn fg on bg.
func requireCell(t *testing.T, c *Console, d *gop.Framebuffer, col, row int, bits []byte, fg, bg gop.Pixel) {
	t.Helper()
	x0, y0 := c.colX(col), c.rowY(row)
	for y := 0; y < c.lineH; y++ {
		for x := 0; x < c.fontW; x++ {
			want := bg
			gy := y - c.fontOffset
			if gy >= 0 && gy < c.fontH && bits[gy]&(0x80>>x) != 0 {
				want = fg
			}
			px, py := c.draw.point(x0+x, y0+y)
			require.Equalf(t, want, d.PixelAt(px, py), "cell (%d,%d) pixel (%d,%d)", col, row, x, y)
		}
	}
}
