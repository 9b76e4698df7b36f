// Command mkcp932 writes the Unicode to CP932 table blob the loader reads
// as CP932.BIN.
package main

import (
	"encoding/binary"
	"flag"
	"os"

	"bootcon/cp932"
	"bootcon/internal/cli"

	"github.com/pterm/pterm"
)

func main() {
	var (
		outPath = flag.String("out", "CP932.BIN", "Output file.")
		trace   = flag.String("trace", "Error", "Trace level [Debug|Info|Error].")
	)
	flag.Parse()
	cli.InitDisplay()
	if err := cli.SetupTracing(*trace); err != nil {
		cli.Fatalf(2, "%v", err)
	}

	blob, err := cp932.FromShiftJIS()
	if err != nil {
		cli.Fatalf(1, "%v", err)
	}
	t, err := cp932.Build(blob, nil)
	if err != nil {
		cli.Fatalf(1, "generated table does not load: %v", err)
	}
	if err := os.WriteFile(*outPath, blob, 0o644); err != nil {
		cli.Fatalf(1, "%v", err)
	}
	pterm.Info.Printf("%s: %d entries, %d scalars mapped\n",
		*outPath, binary.LittleEndian.Uint16(blob), t.Mapped())
}
