package sbfont

import (
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/tinyfont"
)

func TestNewValidatesSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bootcon.fonts")
	defer teardown()

	_, err := New(0, 16, make([]byte, 16))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = New(8, MaxSize+1, make([]byte, 1024))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = New(8, 16, make([]byte, 15))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestGlyphIndexing(t *testing.T) {
	// 12 pixels wide -> two bytes per row
	data := make([]byte, 3*2*4)
	for i := range data {
		data[i] = byte(i / 8)
	}
	f, err := New(12, 4, data)
	require.NoError(t, err)
	assert.Equal(t, 2, f.WidthBytes())
	assert.Equal(t, 8, f.GlyphSize())
	assert.Equal(t, 3, f.Len())

	for c := rune(FirstCode); c < FirstCode+3; c++ {
		g, ok := f.Glyph(c)
		require.True(t, ok)
		require.Len(t, g, 8)
		assert.Equal(t, byte(c-FirstCode), g[0], "glyph %q", c)
	}
	_, ok := f.Glyph(FirstCode + 3)
	assert.False(t, ok, "glyph past the blob")
	_, ok = f.Glyph(0x1F)
	assert.False(t, ok)
	_, ok = f.Glyph(LastCode)
	assert.False(t, ok)
}

func TestNewTruncatesToCodeRange(t *testing.T) {
	f, err := New(8, 1, make([]byte, 300))
	require.NoError(t, err)
	assert.Equal(t, LastCode-FirstCode, f.Len())
	assert.Len(t, f.Bytes(), LastCode-FirstCode)
}

func TestBuiltinCoversASCII(t *testing.T) {
	f, err := Builtin()
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 8, f.Width())
	assert.Equal(t, 16, f.Height())
	assert.Equal(t, 0x80-FirstCode, f.Len())

	blank, ok := f.Glyph(' ')
	require.True(t, ok)
	for _, b := range blank {
		assert.Zero(t, b)
	}
	for _, c := range "AZaz09?#" {
		g, ok := f.Glyph(c)
		require.True(t, ok)
		assert.NotZero(t, popcount(g), "glyph %q is empty", c)
	}
	again, err := Builtin()
	require.NoError(t, err)
	assert.Same(t, f, again)
}

func popcount(b []byte) int {
	n := 0
	for _, v := range b {
		for ; v != 0; v &= v - 1 {
			n++
		}
	}
	return n
}

type pixelRecorder struct {
	w, h int16
	set  map[[2]int16]color.RGBA
}

func (d *pixelRecorder) Size() (x, y int16) { return d.w, d.h }
func (d *pixelRecorder) SetPixel(x, y int16, c color.RGBA) {
	d.set[[2]int16{x, y}] = c
}
func (d *pixelRecorder) Display() error { return nil }

func TestFonterDrawsSetBits(t *testing.T) {
	// 'A' is a full top row, '?' a single dot
	data := make([]byte, ('A'-FirstCode+1)*2)
	data[('A'-FirstCode)*2] = 0xFF
	data[('?'-FirstCode)*2+1] = 0x80
	f, err := New(8, 2, data)
	require.NoError(t, err)

	d := &pixelRecorder{w: 32, h: 8, set: map[[2]int16]color.RGBA{}}
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	tinyfont.DrawChar(d, f.Fonter(), 0, 4, 'A', white)
	assert.Len(t, d.set, 8)
	top := int16(4 - f.ascent)
	for x := int16(0); x < 8; x++ {
		assert.Equal(t, white, d.set[[2]int16{x, top}])
	}

	d.set = map[[2]int16]color.RGBA{}
	tinyfont.DrawChar(d, f.Fonter(), 0, 4, 'B', white)
	assert.Len(t, d.set, 1, "unknown rune falls back to '?'")

	info := f.Fonter().GetGlyph('A').Info()
	assert.Equal(t, uint8(8), info.XAdvance)
	assert.Equal(t, uint8(2), f.Fonter().GetYAdvance())
}
