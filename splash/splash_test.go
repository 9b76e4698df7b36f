package splash

import (
	"bytes"
	"encoding/binary"
	"image"
	"testing"

	"bootcon/gop"
	"bootcon/hal"
	"bootcon/mem"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func newDevice(t *testing.T, w, h int) *gop.Framebuffer {
	t.Helper()
	d, err := gop.NewFramebuffer(hal.NewFramebuffer(w, h))
	require.NoError(t, err)
	return d
}

func gradient(x, y int) gop.Pixel {
	return gop.RGB(uint8(x*16), uint8(y*32), uint8(x+y))
}

func encode(t *testing.T, m image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, m))
	return buf.Bytes()
}

// rawBMP builds a minimal BITMAPINFOHEADER bitmap by hand.
func rawBMP(w, h, depth int, topDown bool) []byte {
	step := depth / 8
	stride := (step*w + 3) &^ 3
	const offset = 14 + 40
	blob := make([]byte, offset+stride*h)
	le := binary.LittleEndian
	blob[0], blob[1] = 'B', 'M'
	le.PutUint32(blob[2:], uint32(len(blob)))
	le.PutUint32(blob[offPixels:], offset)
	le.PutUint32(blob[14:], 40)
	le.PutUint32(blob[offWidth:], uint32(w))
	height := int32(h)
	if topDown {
		height = -height
	}
	le.PutUint32(blob[offHeight:], uint32(height))
	le.PutUint16(blob[26:], 1)
	le.PutUint16(blob[offDepth:], uint16(depth))
	for y := 0; y < h; y++ {
		row := h - 1 - y
		if topDown {
			row = y
		}
		for x := 0; x < w; x++ {
			p := gradient(x, y)
			i := offset + row*stride + x*step
			blob[i], blob[i+1], blob[i+2] = byte(p), byte(p>>8), byte(p>>16)
		}
	}
	return blob
}

func TestParseLayouts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bootcon.splash")
	defer teardown()

	tests := []struct {
		name    string
		depth   int
		topDown bool
	}{
		{"24 bpp bottom-up", 24, false},
		{"32 bpp bottom-up", 32, false},
		{"24 bpp top-down", 24, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// width 5 needs row padding at 24 bpp
			img, err := Parse(rawBMP(5, 3, tc.depth, tc.topDown), nil)
			require.NoError(t, err)
			assert.Equal(t, 5, img.Width)
			assert.Equal(t, 3, img.Height)
			for y := 0; y < 3; y++ {
				for x := 0; x < 5; x++ {
					assert.Equalf(t, gradient(x, y), img.At(x, y), "(%d,%d)", x, y)
				}
			}
		})
	}
}

func TestParseEncodedImage(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 7, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 7; x++ {
			m.SetRGBA(x, y, gradient(x, y).RGBA())
		}
	}
	img, err := Parse(encode(t, m), nil)
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 7; x++ {
			require.Equalf(t, gradient(x, y), img.At(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestParseRejects(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	_, err := Parse(encode(t, gray), nil)
	assert.ErrorIs(t, err, ErrUnsupportedDepth, "8 bpp palette image")

	valid := rawBMP(4, 4, 24, false)
	cases := map[string][]byte{
		"empty":     nil,
		"no magic":  append([]byte("XX"), valid[2:]...),
		"truncated": valid[:len(valid)-1],
		"zero size": func() []byte {
			b := bytes.Clone(valid)
			binary.LittleEndian.PutUint32(b[offWidth:], 0)
			return b
		}(),
		"bad offset": func() []byte {
			b := bytes.Clone(valid)
			binary.LittleEndian.PutUint32(b[offPixels:], uint32(len(b)+1))
			return b
		}(),
	}
	for name, blob := range cases {
		_, err := Parse(blob, nil)
		assert.ErrorIsf(t, err, ErrMalformed, "%s", name)
	}

	_, err = Parse(valid, mem.NewHeap(16))
	assert.ErrorIs(t, err, mem.ErrOutOfResources)
}

func TestDrawClips(t *testing.T) {
	d := newDevice(t, 8, 6)
	img, err := Parse(rawBMP(5, 3, 24, false), nil)
	require.NoError(t, err)

	require.NoError(t, img.Draw(d, 5, -1))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			want := gop.Pixel(0)
			if x >= 5 && y < 2 {
				want = gradient(x-5, y+1)
			}
			require.Equalf(t, want, d.PixelAt(x, y), "(%d,%d)", x, y)
		}
	}
	assert.NoError(t, img.Draw(d, 20, 20), "off screen")
}

func TestShow(t *testing.T) {
	d := newDevice(t, 9, 7)
	pool := mem.NewHeap(0)
	shown, err := Show(d, Static{Image: rawBMP(5, 3, 32, false), Center: true}, pool)
	require.NoError(t, err)
	assert.True(t, shown)
	x, y := Centered(d, 5, 3)
	assert.Equal(t, 2, x)
	assert.Equal(t, 2, y)
	assert.Equal(t, gradient(0, 0), d.PixelAt(2, 2))
	assert.Equal(t, gradient(4, 2), d.PixelAt(6, 4))
	assert.Zero(t, pool.InUse(), "pixel buffer released")

	shown, err = Show(d, Static{}, pool)
	assert.NoError(t, err)
	assert.False(t, shown)

	shown, err = Show(d, Static{Image: []byte("BM")}, pool)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.False(t, shown)
}
