// Command atopsh is an interactive shell around a console drawn on an
// in-memory framebuffer. Each command calls one console operation; the
// screen can be saved as a PNG at any time.
package main

import (
	"errors"
	"flag"
	"os"
	"strings"

	"bootcon/atop"
	"bootcon/cp932"
	"bootcon/fonts/fontx2"
	"bootcon/gop"
	"bootcon/hal"
	"bootcon/internal/cli"
	"bootcon/mem"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
)

func tracer() tracing.Trace {
	return tracing.Select("bootcon.atop")
}

func main() {
	var (
		width  = flag.Int("width", hal.DefaultWidth, "Screen width in pixels.")
		height = flag.Int("height", hal.DefaultHeight, "Screen height in pixels.")
		rotate = flag.Bool("rotate", false, "Force the console to be rotated.")
		fnt    = flag.String("font", "", "FONTX2 double-byte font.")
		cp     = flag.String("cp", "", "Unicode to CP932 table.")
		ank    = flag.String("ank", "", "FONTX2 single-byte font.")
		pool   = flag.Int("pool", 0, "Pool budget in bytes (0 = unlimited).")
		trace  = flag.String("trace", "Info", "Trace level [Debug|Info|Error].")
	)
	flag.Parse()
	cli.InitDisplay()
	if err := cli.SetupTracing(*trace); err != nil {
		cli.Fatalf(2, "%v", err)
	}

	dev, err := gop.NewFramebuffer(hal.NewFramebuffer(*width, *height))
	if err != nil {
		cli.Fatalf(1, "%v", err)
	}
	heap := mem.NewHeap(*pool)
	cfg := atop.Config{Pool: heap}
	if *rotate {
		cfg.Rotation = atop.RotateOn
	}
	if err := loadResources(&cfg, *fnt, *cp, *ank, heap); err != nil {
		cli.Fatalf(1, "%v", err)
	}
	con, err := atop.New(dev, cfg)
	if err != nil {
		cli.Fatalf(1, "%v", err)
	}

	repl, err := readline.New("atop > ")
	if err != nil {
		cli.Fatalf(3, "%v", err)
	}
	defer repl.Close()

	sh := &shell{con: con, dev: dev, pool: heap}
	cols, rows := con.Size()
	pterm.Info.Printf("%dx%d console on %dx%d, rotated=%v\n", cols, rows, *width, *height, con.Rotated())
	pterm.Info.Println("Type 'help' for commands, quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := sh.execute(line)
		if err != nil {
			switch {
			case atop.IsWarning(err):
				pterm.Warning.Println(err)
			default:
				pterm.Error.Println(err)
			}
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func loadResources(cfg *atop.Config, fnt, cp, ank string, pool mem.Pool) error {
	if ank != "" {
		blob, err := os.ReadFile(ank)
		if err != nil {
			return err
		}
		if cfg.Font, err = fontx2.ParseANK(blob); err != nil {
			return err
		}
	}
	if cp != "" {
		blob, err := os.ReadFile(cp)
		if err != nil {
			return err
		}
		if cfg.Codepage, err = cp932.Build(blob, pool); err != nil {
			return err
		}
		tracer().Infof("code page: %d scalars mapped", cfg.Codepage.Mapped())
	}
	if fnt != "" {
		blob, err := os.ReadFile(fnt)
		if err != nil {
			return err
		}
		if cfg.Wide, err = fontx2.Parse(blob); err != nil {
			return err
		}
	}
	if cfg.Wide != nil && cfg.Codepage == nil {
		return errors.New("a double-byte font needs a code page (-cp)")
	}
	return nil
}
