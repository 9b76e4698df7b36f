// Package cli holds the tracing and terminal setup the executables share.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// TraceKeys are the tracers of the library packages.
var TraceKeys = []string{
	"bootcon.atop",
	"bootcon.cp932",
	"bootcon.fonts",
	"bootcon.splash",
}

// SetupTracing routes all library tracers to the Go logger at level
// (Debug, Info or Error).
func SetupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range TraceKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	for _, key := range TraceKeys {
		if err := SetLevel(tracing.Select(key), level); err != nil {
			return err
		}
	}
	return nil
}

// SetLevel sets the level of t by name.
func SetLevel(t tracing.Trace, level string) error {
	switch strings.ToLower(level) {
	case "debug":
		t.SetTraceLevel(tracing.LevelDebug)
	case "info":
		t.SetTraceLevel(tracing.LevelInfo)
	case "error":
		t.SetTraceLevel(tracing.LevelError)
	default:
		return fmt.Errorf("invalid trace level: %s", level)
	}
	return nil
}

// InitDisplay sets up pterm for moderately fancy output.
func InitDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Fatalf prints an error and exits with code.
func Fatalf(code int, format string, args ...any) {
	pterm.Error.Printf(format+"\n", args...)
	os.Exit(code)
}
