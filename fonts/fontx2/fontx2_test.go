package fontx2

import (
	"encoding/binary"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawFont assembles a blob by hand so the parser is not tested against its
// own encoder only.
func rawFont(width, height int, zones [][2]uint16, raster []byte) []byte {
	blob := make([]byte, headerSize)
	copy(blob, Magic)
	copy(blob[offName:], "TEST    ")
	blob[offWidth] = byte(width)
	blob[offHeight] = byte(height)
	blob[offCodeFlag] = CodeDBCS
	blob[offZones] = byte(len(zones))
	for _, z := range zones {
		blob = binary.LittleEndian.AppendUint16(blob, z[0])
		blob = binary.LittleEndian.AppendUint16(blob, z[1])
	}
	return append(blob, raster...)
}

// stamp fills every glyph with a byte derived from its index.
func stamp(glyphs, size int) []byte {
	raster := make([]byte, glyphs*size)
	for i := range raster {
		raster[i] = byte(i / size)
	}
	return raster
}

func TestParseZones(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bootcon.fonts")
	defer teardown()

	// 16x16: 32 bytes per glyph, 3 + 2 glyphs
	blob := rawFont(16, 16, [][2]uint16{{0x8140, 0x8142}, {0x889F, 0x88A0}}, stamp(5, 32))
	f, err := Parse(blob)
	require.NoError(t, err)

	assert.Equal(t, "TEST", f.Name())
	assert.Equal(t, 16, f.Width())
	assert.Equal(t, 16, f.Height())
	assert.Equal(t, 2, f.WidthBytes())
	assert.Equal(t, 32, f.GlyphSize())
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, 5*32, f.RasterSize())
	assert.Equal(t, []Zone{
		{Begin: 0x8140, End: 0x8142, Offset: 0},
		{Begin: 0x889F, End: 0x88A0, Offset: 96},
	}, f.Zones())

	tests := []struct {
		code  uint16
		index int
		ok    bool
	}{
		{0x8140, 0, true},
		{0x8142, 2, true},
		{0x889F, 3, true},
		{0x88A0, 4, true},
		{0x813F, 0, false},
		{0x8143, 0, false},
		{0x88A1, 0, false},
		{0xFFFF, 0, false},
	}
	for _, tc := range tests {
		g, ok := f.Glyph(tc.code)
		assert.Equalf(t, tc.ok, ok, "code %#04x", tc.code)
		if !tc.ok {
			continue
		}
		require.Len(t, g, 32)
		assert.Equalf(t, byte(tc.index), g[0], "code %#04x", tc.code)
	}
}

func TestLookupOffsetsStayInRaster(t *testing.T) {
	blob := rawFont(12, 10, [][2]uint16{{0x8140, 0x817E}, {0x8180, 0x81FC}, {0xE040, 0xE041}}, stamp(63+125+2, 20))
	f, err := Parse(blob)
	require.NoError(t, err)
	for _, z := range f.Zones() {
		for c := int(z.Begin); c <= int(z.End); c++ {
			off, ok := f.Lookup(uint16(c))
			require.True(t, ok)
			assert.GreaterOrEqual(t, off, 0)
			assert.Less(t, off+f.GlyphSize()-1, f.RasterSize())
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bootcon.fonts")
	defer teardown()

	tests := map[string][]byte{
		"short header":    make([]byte, headerSize-1),
		"zero width":      rawFont(0, 16, nil, nil),
		"truncated zones": rawFont(16, 16, [][2]uint16{{0x8140, 0x8140}}, nil)[:headerSize+2],
		"reversed zone":   rawFont(16, 16, [][2]uint16{{0x8142, 0x8140}}, stamp(3, 32)),
		"overlap":         rawFont(16, 16, [][2]uint16{{0x8140, 0x8142}, {0x8142, 0x8143}}, stamp(5, 32)),
		"descending":      rawFont(16, 16, [][2]uint16{{0x8240, 0x8240}, {0x8140, 0x8140}}, stamp(2, 32)),
		"short raster":    rawFont(16, 16, [][2]uint16{{0x8140, 0x8142}}, stamp(2, 32)),
	}
	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(blob)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			var fe *FormatError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func TestParseWithoutSignature(t *testing.T) {
	blob := rawFont(8, 8, [][2]uint16{{0x8140, 0x8140}}, stamp(1, 8))
	copy(blob, "XXXXXX")
	f, err := Parse(blob)
	require.NoError(t, err)
	_, ok := f.Glyph(0x8140)
	assert.True(t, ok)
}

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder(16, 16)
	glyph := func(v byte) []byte {
		g := make([]byte, 32)
		g[0] = v
		return g
	}
	// a row with the 0x7F hole, and a distant second row
	for c := uint16(0x8140); c <= 0x8180; c++ {
		if c == 0x817F {
			continue
		}
		require.NoError(t, b.Add(c, glyph(byte(c))))
	}
	require.NoError(t, b.Add(0x889F, glyph(0x9F)))
	assert.Error(t, b.Add(0x8141, make([]byte, 3)))

	zones := b.Zones()
	require.Len(t, zones, 2)
	assert.Equal(t, Zone{Begin: 0x8140, End: 0x8180, Offset: 0}, zones[0])
	assert.Equal(t, Zone{Begin: 0x889F, End: 0x889F, Offset: 0x41 * 32}, zones[1])

	blob, err := b.Encode("GOMONO")
	require.NoError(t, err)
	f, err := Parse(blob)
	require.NoError(t, err)
	assert.Equal(t, "GOMONO", f.Name())
	assert.Equal(t, zones, f.Zones())

	g, ok := f.Glyph(0x8150)
	require.True(t, ok)
	assert.Equal(t, byte(0x50), g[0])
	hole, ok := f.Glyph(0x817F)
	require.True(t, ok, "bridged gap has a blank glyph")
	assert.Equal(t, make([]byte, 32), hole)
	g, ok = f.Glyph(0x889F)
	require.True(t, ok)
	assert.Equal(t, byte(0x9F), g[0])
}

func TestParseANK(t *testing.T) {
	raster := make([]byte, 256*16)
	raster['A'*16] = 0x18
	blob, err := EncodeANK("ANK16", 8, 16, raster)
	require.NoError(t, err)

	f, err := ParseANK(blob)
	require.NoError(t, err)
	assert.Equal(t, 8, f.Width())
	assert.Equal(t, 16, f.Height())
	assert.Equal(t, 256-0x20, f.Len())
	g, ok := f.Glyph('A')
	require.True(t, ok)
	assert.Equal(t, byte(0x18), g[0])

	_, err = ParseANK(blob[:100])
	assert.ErrorIs(t, err, ErrMalformed)

	dbcs := rawFont(8, 16, nil, nil)
	_, err = ParseANK(dbcs)
	assert.ErrorIs(t, err, ErrMalformed)
}
