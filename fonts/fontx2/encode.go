package fontx2

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// MaxZones is the most zones a header can declare.
const MaxZones = 0xFF

// zoneGap is the longest run of missing codes that is padded with blank
// glyphs instead of starting a new zone.
const zoneGap = 8

// Builder collects double-byte glyphs and encodes them as a FONTX2 font.
type Builder struct {
	width, height int
	glyphs        map[uint16][]byte
}

// NewBuilder starts a font of width x height glyphs.
func NewBuilder(width, height int) *Builder {
	return &Builder{width: width, height: height, glyphs: make(map[uint16][]byte)}
}

func (b *Builder) glyphSize() int { return (b.width + 7) / 8 * b.height }

// Add sets the glyph for code. glyph must be exactly one glyph long.
func (b *Builder) Add(code uint16, glyph []byte) error {
	if len(glyph) != b.glyphSize() {
		return fmt.Errorf("fontx2: glyph %#04x has %d bytes, want %d", code, len(glyph), b.glyphSize())
	}
	b.glyphs[code] = slices.Clone(glyph)
	return nil
}

// Len is the number of glyphs added so far.
func (b *Builder) Len() int { return len(b.glyphs) }

// Zones groups the added codes into ascending zones. Short gaps between
// codes are bridged so that a code page fits in MaxZones.
func (b *Builder) Zones() []Zone {
	codes := make([]uint16, 0, len(b.glyphs))
	for c := range b.glyphs {
		codes = append(codes, c)
	}
	slices.Sort(codes)

	var zones []Zone
	off := 0
	for _, c := range codes {
		if n := len(zones); n > 0 && int(c)-int(zones[n-1].End) <= zoneGap+1 {
			zones[n-1].End = c
			continue
		}
		if n := len(zones); n > 0 {
			off += zones[n-1].Len() * b.glyphSize()
		}
		zones = append(zones, Zone{Begin: c, End: c, Offset: off})
	}
	return zones
}

// Encode returns the FONTX2 blob for the collected glyphs.
func (b *Builder) Encode(name string) ([]byte, error) {
	if b.width <= 0 || b.width > 0xFF || b.height <= 0 || b.height > 0xFF {
		return nil, fmt.Errorf("fontx2: glyph size %dx%d out of range", b.width, b.height)
	}
	zones := b.Zones()
	if len(zones) > MaxZones {
		return nil, fmt.Errorf("fontx2: %d zones exceed the limit of %d", len(zones), MaxZones)
	}

	size := b.glyphSize()
	out := header(name, b.width, b.height, CodeDBCS)
	out = append(out, byte(len(zones)))
	for _, z := range zones {
		out = binary.LittleEndian.AppendUint16(out, z.Begin)
		out = binary.LittleEndian.AppendUint16(out, z.End)
	}
	blank := make([]byte, size)
	for _, z := range zones {
		for c := int(z.Begin); c <= int(z.End); c++ {
			g, ok := b.glyphs[uint16(c)]
			if !ok {
				g = blank
			}
			out = append(out, g...)
		}
	}
	return out, nil
}

// EncodeANK returns a single-byte FONTX2 blob. raster holds the glyphs for
// codes 0 to 255; missing trailing glyphs are blank.
func EncodeANK(name string, width, height int, raster []byte) ([]byte, error) {
	if width <= 0 || width > 0xFF || height <= 0 || height > 0xFF {
		return nil, fmt.Errorf("fontx2: glyph size %dx%d out of range", width, height)
	}
	size := (width + 7) / 8 * height
	if len(raster) > ankGlyphs*size {
		return nil, fmt.Errorf("fontx2: %d raster bytes exceed %d glyphs", len(raster), ankGlyphs)
	}
	out := header(name, width, height, CodeANK)
	out = append(out, raster...)
	return append(out, make([]byte, ankGlyphs*size-len(raster))...), nil
}

func header(name string, width, height int, flag byte) []byte {
	out := make([]byte, offZones, headerSize)
	copy(out, Magic)
	n := copy(out[offName:offName+nameSize], name)
	for i := offName + n; i < offName+nameSize; i++ {
		out[i] = ' '
	}
	out[offWidth] = byte(width)
	out[offHeight] = byte(height)
	out[offCodeFlag] = flag
	return out
}
