package fontx2

import (
	"bytes"
	"fmt"

	"bootcon/fonts/sbfont"
)

// ankGlyphs is the number of glyphs in a single-byte font.
const ankGlyphs = 256

// ParseANK reads a single-byte FONTX2 font and returns it as an sbfont.Font
// covering the codes sbfont.FirstCode and up. Control code glyphs are dropped.
func ParseANK(blob []byte) (*sbfont.Font, error) {
	if len(blob) < offZones {
		return nil, errFormat(0, "header needs %d bytes, have %d", offZones, len(blob))
	}
	if !bytes.HasPrefix(blob, []byte(Magic)) {
		return nil, errFormat(0, "missing %q signature", Magic)
	}
	if blob[offCodeFlag] != CodeANK {
		return nil, errFormat(offCodeFlag, "code flag %d is not single-byte", blob[offCodeFlag])
	}

	width, height := int(blob[offWidth]), int(blob[offHeight])
	if width == 0 || height == 0 {
		return nil, errFormat(offWidth, "empty glyph size %dx%d", width, height)
	}
	size := (width + 7) / 8 * height
	raster := blob[offZones:]
	if len(raster) < ankGlyphs*size {
		return nil, errFormat(offZones, "raster needs %d bytes, have %d", ankGlyphs*size, len(raster))
	}

	f, err := sbfont.New(width, height, raster[sbfont.FirstCode*size:ankGlyphs*size])
	if err != nil {
		return nil, fmt.Errorf("fontx2: %q: %w", readName(blob), err)
	}
	tracer().Debugf("fontx2: ANK %q %dx%d", readName(blob), width, height)
	return f, nil
}
