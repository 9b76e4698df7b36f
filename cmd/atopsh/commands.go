package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"bootcon/atop"
	"bootcon/gop"
	"bootcon/mem"
	"bootcon/splash"

	"github.com/pterm/pterm"
	"golang.org/x/image/bmp"
)

type shell struct {
	con  *atop.Console
	dev  *gop.Framebuffer
	pool mem.Pool
}

type command struct {
	args  string
	usage string
	run   func(sh *shell, args []string, rest string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"out":    {"TEXT", "OutputString; Go escapes like \\n and \\x82 are decoded", outCmd},
		"test":   {"TEXT", "TestString", testCmd},
		"query":  {"N", "QueryMode", queryCmd},
		"mode":   {"N", "SetMode", modeCmd},
		"attr":   {"HEX", "SetAttribute, e.g. 1F", attrCmd},
		"clear":  {"", "ClearScreen", clearCmd},
		"cursor": {"COL ROW", "SetCursorPosition", cursorCmd},
		"show":   {"on|off", "EnableCursor", showCmd},
		"reset":  {"", "Reset", resetCmd},
		"state":  {"", "print the console state", stateCmd},
		"splash": {"FILE [X Y]", "draw a BMP, centered without X Y", splashCmd},
		"save":   {"FILE", "save the screen as PNG", saveCmd},
		"help":   {"", "list commands", helpCmd},
	}
}

// execute runs one command line and reports whether the shell should stop.
func (sh *shell) execute(line string) (bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	if name == "quit" || name == "exit" {
		return true, nil
	}
	cmd, ok := commands[strings.ToLower(name)]
	if !ok {
		return false, fmt.Errorf("unknown command %q, try 'help'", name)
	}
	return false, cmd.run(sh, strings.Fields(rest), rest)
}

func intArgs(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d arguments, have %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func unescape(s string) ([]byte, error) {
	u, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return nil, fmt.Errorf("bad escape in %q", s)
	}
	return []byte(u), nil
}

func outCmd(sh *shell, _ []string, rest string) error {
	text, err := unescape(rest)
	if err != nil {
		return err
	}
	return sh.con.OutputString(text)
}

func testCmd(sh *shell, _ []string, rest string) error {
	text, err := unescape(rest)
	if err != nil {
		return err
	}
	if err := sh.con.TestString(text); err != nil {
		return err
	}
	pterm.Printf("%d columns, all characters supported\n", atop.DisplayWidth(text))
	return nil
}

func queryCmd(sh *shell, args []string, _ string) error {
	n, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	cols, rows, err := sh.con.QueryMode(n[0])
	if err != nil {
		return err
	}
	pterm.Printf("mode %d: %dx%d\n", n[0], cols, rows)
	return nil
}

func modeCmd(sh *shell, args []string, _ string) error {
	n, err := intArgs(args, 1)
	if err != nil {
		return err
	}
	return sh.con.SetMode(n[0])
}

func attrCmd(sh *shell, args []string, _ string) error {
	if len(args) != 1 {
		return errors.New("want one hex attribute")
	}
	a, err := strconv.ParseUint(args[0], 16, 8)
	if err != nil {
		return err
	}
	return sh.con.SetAttribute(uint8(a))
}

func clearCmd(sh *shell, _ []string, _ string) error { return sh.con.ClearScreen() }
func resetCmd(sh *shell, _ []string, _ string) error { return sh.con.Reset(false) }

func cursorCmd(sh *shell, args []string, _ string) error {
	p, err := intArgs(args, 2)
	if err != nil {
		return err
	}
	return sh.con.SetCursorPosition(p[0], p[1])
}

func showCmd(sh *shell, args []string, _ string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return errors.New("want on or off")
	}
	return sh.con.EnableCursor(args[0] == "on")
}

func stateCmd(sh *shell, _ []string, _ string) error {
	m := sh.con.Mode()
	cols, rows := sh.con.Size()
	data := [][]string{
		{"mode", fmt.Sprintf("%d of %d", m.Mode, m.MaxMode)},
		{"grid", fmt.Sprintf("%dx%d", cols, rows)},
		{"attribute", fmt.Sprintf("%02X", m.Attribute)},
		{"cursor", fmt.Sprintf("(%d,%d) visible=%v", m.CursorColumn, m.CursorRow, m.CursorVisible)},
		{"rotated", strconv.FormatBool(sh.con.Rotated())},
	}
	pterm.DefaultTable.WithData(data).Render()
	return nil
}

// splashCmd accepts any BMP the bmp package decodes and re-encodes it in the
// 24 bpp layout the splash decoder takes.
func splashCmd(sh *shell, args []string, _ string) error {
	if len(args) != 1 && len(args) != 3 {
		return errors.New("want FILE [X Y]")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	m, err := bmp.Decode(f)
	if err != nil {
		return err
	}
	b := m.Bounds()
	opaque := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := gop.FromColor(m.At(b.Min.X+x, b.Min.Y+y))
			opaque.SetRGBA(x, y, c.RGBA())
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, opaque); err != nil {
		return err
	}
	res := splash.Static{Image: buf.Bytes(), Center: true}
	if len(args) == 3 {
		p, err := intArgs(args[1:], 2)
		if err != nil {
			return err
		}
		res.OffsetX, res.OffsetY, res.Center = p[0], p[1], false
	}
	_, err = splash.Show(sh.dev, res, sh.pool)
	return err
}

func saveCmd(sh *shell, args []string, _ string) error {
	if len(args) != 1 {
		return errors.New("want a file name")
	}
	w, h := sh.dev.Size()
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for y := 0; y < int(h); y++ {
		for x := 0; x < int(w); x++ {
			img.SetRGBA(x, y, sh.dev.PixelAt(x, y).RGBA())
		}
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func helpCmd(_ *shell, _ []string, _ string) error {
	data := [][]string{{"command", "arguments", ""}}
	for _, name := range []string{"out", "test", "query", "mode", "attr", "clear", "cursor", "show", "reset", "state", "splash", "save", "help"} {
		c := commands[name]
		data = append(data, []string{name, c.args, c.usage})
	}
	data = append(data, []string{"quit", "", "leave the shell"})
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}
