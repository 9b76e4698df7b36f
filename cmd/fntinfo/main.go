// Command fntinfo prints the header and zone table of a FONTX2 font and can
// dump single glyphs as text.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bootcon/cp932"
	"bootcon/fonts/fontx2"
	"bootcon/internal/cli"

	"github.com/pterm/pterm"
)

func main() {
	var (
		show  = flag.String("show", "", "Dump the glyph for a character or a hex code (e.g. 漢 or 8ABF).")
		cp    = flag.String("cp", "", "CP932 table used to look up -show characters.")
		trace = flag.String("trace", "Error", "Trace level [Debug|Info|Error].")
	)
	flag.Parse()
	cli.InitDisplay()
	if err := cli.SetupTracing(*trace); err != nil {
		cli.Fatalf(2, "%v", err)
	}
	if flag.NArg() != 1 {
		cli.Fatalf(2, "usage: fntinfo [-show X] [-cp CP932.BIN] FONT")
	}
	blob, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		cli.Fatalf(1, "%v", err)
	}

	if len(blob) > 0x10 && blob[0x10] == fontx2.CodeANK {
		f, err := fontx2.ParseANK(blob)
		if err != nil {
			cli.Fatalf(1, "%v", err)
		}
		pterm.Info.Printf("single-byte font %dx%d, %d glyphs\n", f.Width(), f.Height(), f.Len())
		if *show != "" {
			r := []rune(*show)[0]
			bits, ok := f.Glyph(r)
			if !ok {
				cli.Fatalf(1, "no glyph for %q", r)
			}
			dump(bits, f.Width(), f.Height())
		}
		return
	}

	f, err := fontx2.Parse(blob)
	if err != nil {
		cli.Fatalf(1, "%v", err)
	}
	pterm.Info.Printf("%q %dx%d, %d glyphs in %d zones, %d raster bytes\n",
		f.Name(), f.Width(), f.Height(), f.Len(), len(f.Zones()), f.RasterSize())
	data := [][]string{{"#", "begin", "end", "glyphs", "offset"}}
	for i, z := range f.Zones() {
		data = append(data, []string{
			strconv.Itoa(i),
			fmt.Sprintf("%04X", z.Begin),
			fmt.Sprintf("%04X", z.End),
			strconv.Itoa(z.Len()),
			fmt.Sprintf("%#x", z.Offset),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if *show == "" {
		return
	}
	code, err := resolveCode(*show, *cp)
	if err != nil {
		cli.Fatalf(1, "%v", err)
	}
	bits, ok := f.Glyph(code)
	if !ok {
		cli.Fatalf(1, "no glyph for code %04X", code)
	}
	pterm.Info.Printf("code %04X\n", code)
	dump(bits, f.Width(), f.Height())
}

// resolveCode takes a hex code, or a character looked up in the table at
// cpPath.
func resolveCode(s, cpPath string) (uint16, error) {
	if c, err := strconv.ParseUint(s, 16, 16); err == nil && len(s) == 4 {
		return uint16(c), nil
	}
	if cpPath == "" {
		return 0, fmt.Errorf("%q is not a hex code and no -cp table given", s)
	}
	blob, err := os.ReadFile(cpPath)
	if err != nil {
		return 0, err
	}
	t, err := cp932.Build(blob, nil)
	if err != nil {
		return 0, err
	}
	r := []rune(s)[0]
	code := t.Lookup(r)
	if code == 0 {
		return 0, fmt.Errorf("%q is not in the code page", r)
	}
	return code, nil
}

func dump(bits []byte, w, h int) {
	wb := (w + 7) / 8
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bits[y*wb+x/8]&(0x80>>(x%8)) != 0 {
				sb.WriteString("##")
			} else {
				sb.WriteString("..")
			}
		}
		sb.WriteByte('\n')
	}
	pterm.Print(sb.String())
}
