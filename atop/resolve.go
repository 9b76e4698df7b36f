package atop

import (
	"bootcon/cp932"
	"bootcon/fonts/fontx2"
	"bootcon/fonts/sbfont"
)

type glyphKind uint8

const (
	glyphNone        glyphKind = iota // hold marker, NUL
	glyphBackspace                    // BS
	glyphReturn                       // CR
	glyphLineFeed                     // LF
	glyphNarrow                       // single-byte glyph
	glyphWide                         // double-byte glyph
	glyphFiller                       // double-byte code without a raster
	glyphUnsupported                  // replacement glyph
)

func (k glyphKind) String() string {
	switch k {
	case glyphNone:
		return "none"
	case glyphBackspace:
		return "backspace"
	case glyphReturn:
		return "return"
	case glyphLineFeed:
		return "linefeed"
	case glyphNarrow:
		return "narrow"
	case glyphWide:
		return "wide"
	case glyphFiller:
		return "filler"
	default:
		return "unsupported"
	}
}

// glyph is one resolved character. bits is set for narrow and wide glyphs.
type glyph struct {
	kind glyphKind
	code uint16 // CP932 code of wide and filler glyphs
	bits []byte
}

// resolver maps decoded scalars to glyphs. It holds read-only references
// only, so copies are cheap.
type resolver struct {
	font     *sbfont.Font
	wide     *fontx2.Font
	codepage *cp932.Table
}

func (rs resolver) resolve(r rune) glyph {
	switch {
	case r == holdMarker:
		return glyph{kind: glyphNone}

	case r == invalidRune:
		return glyph{kind: glyphUnsupported}

	case r < 0x20:
		switch r {
		case 0x00:
			return glyph{kind: glyphNone}
		case '\b':
			return glyph{kind: glyphBackspace}
		case '\r':
			return glyph{kind: glyphReturn}
		case '\n':
			return glyph{kind: glyphLineFeed}
		}
		return glyph{kind: glyphUnsupported}

	case r < 0x80:
		bits, ok := rs.font.Glyph(r)
		if !ok {
			return glyph{kind: glyphUnsupported}
		}
		return glyph{kind: glyphNarrow, bits: bits}

	case r < cp932.TableSize && rs.codepage != nil:
		code := rs.codepage.Lookup(r)
		if code == 0 {
			return glyph{kind: glyphUnsupported}
		}
		if rs.wide != nil {
			if bits, ok := rs.wide.Glyph(code); ok {
				return glyph{kind: glyphWide, code: code, bits: bits}
			}
		}
		return glyph{kind: glyphFiller, code: code}
	}
	return glyph{kind: glyphUnsupported}
}

// supported reports whether r renders as something other than the
// replacement glyph.
func (rs resolver) supported(r rune) bool {
	return rs.resolve(r).kind != glyphUnsupported
}
