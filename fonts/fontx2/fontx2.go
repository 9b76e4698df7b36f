// Package fontx2 reads FONTX2 bitmap fonts.
//
// A double-byte font covers legacy two-byte codes through a table of zones.
// Each zone is a contiguous code range whose glyphs are stored back to back
// in the raster area that follows the zone table:
//
//	0x00  "FONTX2"
//	0x06  font name, 8 bytes
//	0x0E  glyph width in pixels
//	0x0F  glyph height in pixels
//	0x10  code flag (0 = single-byte ANK, 1 = double-byte)
//	0x11  zone count N
//	0x12  N zones {begin, end uint16 little-endian}
//	....  raster
//
// A single-byte ANK font stores 256 glyphs right after the code flag.
package fontx2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// Magic starts every well-formed FONTX2 file.
const Magic = "FONTX2"

const (
	offName     = 0x06
	offWidth    = 0x0E
	offHeight   = 0x0F
	offCodeFlag = 0x10
	offZones    = 0x11
	headerSize  = 0x12
	zoneSize    = 4
	nameSize    = 8
)

// Code flags.
const (
	CodeANK  = 0
	CodeDBCS = 1
)

// ErrMalformed is the root cause of every parse failure.
var ErrMalformed = errors.New("fontx2: malformed font")

// FormatError describes where a blob stopped making sense.
type FormatError struct {
	Offset int    // byte offset of the offending field
	Issue  string // human-readable description
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("fontx2: at offset %#x: %s", e.Offset, e.Issue)
}

func (e *FormatError) Unwrap() error { return ErrMalformed }

func errFormat(off int, format string, args ...any) error {
	return &FormatError{Offset: off, Issue: fmt.Sprintf(format, args...)}
}

func tracer() tracing.Trace {
	return tracing.Select("bootcon.fonts")
}

// Zone maps the codes [Begin, End] to glyphs starting at Offset bytes into
// the raster.
type Zone struct {
	Begin  uint16
	End    uint16
	Offset int
}

// Len is the number of glyphs in z.
func (z Zone) Len() int { return int(z.End) - int(z.Begin) + 1 }

// Contains reports whether code falls into z.
func (z Zone) Contains(code uint16) bool { return code >= z.Begin && code <= z.End }

// Font is a parsed double-byte FONTX2 font. It is read-only after Parse.
type Font struct {
	name       string
	width      int
	height     int
	widthBytes int
	zones      []Zone
	raster     []byte
}

func (f *Font) Name() string    { return f.name }
func (f *Font) Width() int      { return f.width }
func (f *Font) Height() int     { return f.height }
func (f *Font) WidthBytes() int { return f.widthBytes }
func (f *Font) GlyphSize() int  { return f.widthBytes * f.height }
func (f *Font) RasterSize() int { return len(f.raster) }

// Zones returns a copy of the zone table in ascending order.
func (f *Font) Zones() []Zone {
	return append([]Zone(nil), f.zones...)
}

// Len is the number of glyphs over all zones.
func (f *Font) Len() int {
	n := 0
	for _, z := range f.zones {
		n += z.Len()
	}
	return n
}

// Parse validates blob and builds the zone table. The raster is retained,
// not copied.
//
// The magic and code flag are informational; a blob with a sound header,
// zone table and raster is accepted without them.
func Parse(blob []byte) (*Font, error) {
	if len(blob) < headerSize {
		return nil, errFormat(0, "header needs %d bytes, have %d", headerSize, len(blob))
	}
	if !bytes.HasPrefix(blob, []byte(Magic)) {
		tracer().Infof("fontx2: no %q signature, reading header anyway", Magic)
	} else if blob[offCodeFlag] != CodeDBCS {
		tracer().Infof("fontx2: code flag %d, reading as double-byte", blob[offCodeFlag])
	}

	f := &Font{
		name:   readName(blob),
		width:  int(blob[offWidth]),
		height: int(blob[offHeight]),
	}
	if f.width == 0 || f.height == 0 {
		return nil, errFormat(offWidth, "empty glyph size %dx%d", f.width, f.height)
	}
	f.widthBytes = (f.width + 7) / 8
	glyphSize := f.GlyphSize()

	n := int(blob[offZones])
	rasterStart := headerSize + n*zoneSize
	if len(blob) < rasterStart {
		return nil, errFormat(offZones, "%d zones need %d bytes, have %d", n, rasterStart, len(blob))
	}

	f.zones = make([]Zone, n)
	off := 0
	for i := range f.zones {
		at := headerSize + i*zoneSize
		z := Zone{
			Begin:  binary.LittleEndian.Uint16(blob[at:]),
			End:    binary.LittleEndian.Uint16(blob[at+2:]),
			Offset: off,
		}
		if z.End < z.Begin {
			return nil, errFormat(at, "zone %d ends at %#04x before it begins at %#04x", i, z.End, z.Begin)
		}
		if i > 0 && z.Begin <= f.zones[i-1].End {
			return nil, errFormat(at, "zone %d at %#04x overlaps or precedes zone %d", i, z.Begin, i-1)
		}
		f.zones[i] = z
		off += glyphSize * z.Len()
	}

	if len(blob)-rasterStart < off {
		return nil, errFormat(rasterStart, "raster needs %d bytes, have %d", off, len(blob)-rasterStart)
	}
	f.raster = blob[rasterStart : rasterStart+off]
	tracer().Debugf("fontx2: %q %dx%d, %d zones, %d glyphs", f.name, f.width, f.height, n, f.Len())
	return f, nil
}

func readName(blob []byte) string {
	name := blob[offName : offName+nameSize]
	return string(bytes.TrimRight(name, " \x00"))
}

// Lookup returns the raster offset of the glyph for code. Zones are scanned
// in ascending order and the scan stops at the first zone that begins after
// code.
func (f *Font) Lookup(code uint16) (int, bool) {
	for _, z := range f.zones {
		if code < z.Begin {
			break
		}
		if z.Contains(code) {
			return z.Offset + int(code-z.Begin)*f.GlyphSize(), true
		}
	}
	return 0, false
}

// Glyph returns the 1-bpp bitmap for code.
func (f *Font) Glyph(code uint16) ([]byte, bool) {
	off, ok := f.Lookup(code)
	if !ok {
		return nil, false
	}
	return f.raster[off : off+f.GlyphSize()], true
}
