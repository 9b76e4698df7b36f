package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"bootcon/app"
	"bootcon/atop"
	"bootcon/hal"
	"bootcon/internal/buildinfo"
	"bootcon/internal/cli"
)

func main() {
	var cfg hal.HeadlessConfig
	var acfg app.Config
	var rotate, trace string
	var lf, version bool
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&cfg.Host.Width, "width", hal.DefaultWidth, "Screen width in pixels.")
	flag.IntVar(&cfg.Host.Height, "height", hal.DefaultHeight, "Screen height in pixels.")
	flag.BoolVar(&cfg.Host.NoDisplay, "nodisplay", false, "Hide the graphics device and use the serial console.")
	flag.StringVar(&rotate, "rotate", "auto", "Console rotation: auto|on|off.")
	flag.StringVar(&acfg.FontPath, "font", "", "FONTX2 double-byte font (CP932.FNT).")
	flag.StringVar(&acfg.CodepagePath, "cp", "", "Unicode to CP932 table (CP932.BIN).")
	flag.StringVar(&acfg.ANKPath, "ank", "", "FONTX2 single-byte font replacing the built-in one.")
	flag.StringVar(&acfg.SplashPath, "splash", "", "Boot splash bitmap (24 or 32 bpp BMP).")
	flag.IntVar(&acfg.Mode, "mode", 0, "Text mode to start in.")
	flag.IntVar(&acfg.Countdown, "countdown", 2, "Seconds to wait for a key before autoboot (0 = no countdown).")
	flag.BoolVar(&acfg.Resync, "resync", false, "Show cut-off UTF-8 sequences as replacement glyphs.")
	flag.BoolVar(&lf, "lf", false, "Line feed keeps the column instead of returning to column 0.")
	flag.StringVar(&trace, "trace", "Error", "Trace level [Debug|Info|Error].")
	flag.BoolVar(&version, "version", false, "Print the build and exit.")
	flag.Parse()

	if version {
		fmt.Println("bootcon", buildinfo.String())
		return
	}

	if err := cli.SetupTracing(trace); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	switch rotate {
	case "auto":
		acfg.Rotation = atop.RotateAuto
	case "on":
		acfg.Rotation = atop.RotateOn
	case "off":
		acfg.Rotation = atop.RotateOff
	default:
		fmt.Fprintf(os.Stderr, "invalid -rotate %q\n", rotate)
		os.Exit(2)
	}
	if lf {
		acfg.Newline = atop.NewlineLF
	}
	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, acfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, cfg.Host); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
