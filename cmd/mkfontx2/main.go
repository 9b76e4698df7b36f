// Command mkfontx2 rasterizes a TrueType font into the FONTX2 fonts the
// loader reads: a double-byte font covering the CP932 code sequence and,
// optionally, a single-byte ANK font.
package main

import (
	"flag"
	"os"

	"bootcon/cp932"
	"bootcon/fonts/fontx2"
	"bootcon/fonts/sbfont"
	"bootcon/internal/cli"

	"github.com/pterm/pterm"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

func main() {
	var (
		ttfPath = flag.String("ttf", "", "TrueType/OpenType font (default: Go Mono).")
		size    = flag.Int("size", 16, "Double-byte glyph size in pixels.")
		name    = flag.String("name", "BOOTCON", "Font name stored in the header (8 characters).")
		outPath = flag.String("out", "CP932.FNT", "Double-byte output file.")
		ankPath = flag.String("ank", "", "Also write a single-byte font of size/2 x size here.")
		trace   = flag.String("trace", "Error", "Trace level [Debug|Info|Error].")
	)
	flag.Parse()
	cli.InitDisplay()
	if err := cli.SetupTracing(*trace); err != nil {
		cli.Fatalf(2, "%v", err)
	}
	if *size < 8 || *size > 64 {
		cli.Fatalf(2, "size %d out of range 8..64", *size)
	}

	ttf := gomono.TTF
	if *ttfPath != "" {
		b, err := os.ReadFile(*ttfPath)
		if err != nil {
			cli.Fatalf(1, "%v", err)
		}
		ttf = b
	}
	otf, err := opentype.Parse(ttf)
	if err != nil {
		cli.Fatalf(1, "parse font: %v", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    float64(*size) * 7 / 8,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		cli.Fatalf(1, "font face: %v", err)
	}
	defer face.Close()

	blob, n := wideFont(face, *size, *name)
	if err := os.WriteFile(*outPath, blob, 0o644); err != nil {
		cli.Fatalf(1, "%v", err)
	}
	pterm.Info.Printf("%s: %d glyphs of %dx%d\n", *outPath, n, *size, *size)

	if *ankPath != "" {
		w := *size / 2
		f, err := sbfont.FromFace(face, w, *size, 0x80)
		if err != nil {
			cli.Fatalf(1, "single-byte font: %v", err)
		}
		raster := append(make([]byte, sbfont.FirstCode*f.GlyphSize()), f.Bytes()...)
		ank, err := fontx2.EncodeANK(*name, w, *size, raster)
		if err != nil {
			cli.Fatalf(1, "%v", err)
		}
		if err := os.WriteFile(*ankPath, ank, 0o644); err != nil {
			cli.Fatalf(1, "%v", err)
		}
		pterm.Info.Printf("%s: single-byte %dx%d\n", *ankPath, w, *size)
	}
}

// wideFont rasterizes every code of the CP932 sequence the face has a glyph
// for.
func wideFont(face font.Face, size int, name string) ([]byte, int) {
	b := fontx2.NewBuilder(size, size)
	ascent := sbfont.CellAscent(face, size)
	glyph := make([]byte, (size+7)/8*size)
	for code := range cp932.Sequence() {
		r, ok := cp932.Decode(code)
		if !ok {
			continue
		}
		clear(glyph)
		if !sbfont.Rasterize(face, r, size, size, ascent, glyph) {
			continue
		}
		if err := b.Add(code, glyph); err != nil {
			cli.Fatalf(1, "%v", err)
		}
	}
	blob, err := b.Encode(name)
	if err != nil {
		cli.Fatalf(1, "%v", err)
	}
	return blob, b.Len()
}
