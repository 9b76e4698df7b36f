package app

import (
	"fmt"
	"os"
	"strings"

	"bootcon/atop"
	"bootcon/cp932"
	"bootcon/fonts/fontx2"
	"bootcon/gop"
	"bootcon/hal"
	"bootcon/internal/buildinfo"
	"bootcon/mem"
	"bootcon/splash"
)

const prompt = "> "

// Config selects the resources the loader starts its console with. Empty
// paths are skipped.
type Config struct {
	FontPath     string // FONTX2 double-byte font (CP932.FNT)
	ANKPath      string // FONTX2 single-byte font, replaces the built-in one
	CodepagePath string // Unicode to CP932 table (CP932.BIN)
	SplashPath   string // boot splash bitmap, centered on the screen

	Mode     int
	Rotation atop.Rotation
	Newline  atop.Newline
	Resync   bool

	// PoolLimit caps the bytes the console may allocate, 0 for no limit.
	PoolLimit int

	// Countdown is the number of seconds to wait for a key before the
	// autoboot message, 0 to skip it.
	Countdown int
}

// console is what both the framebuffer and the serial console offer.
type console interface {
	atop.TextOutput
	Write(p []byte) (int, error)
	Mode() atop.Mode
}

type system struct {
	log    hal.Logger
	out    console
	dev    *gop.Framebuffer // set when out is the framebuffer console
	screen *gop.Framebuffer // presented every step
	kbd    hal.Keyboard
	pool   *mem.Heap

	line []int // display widths of the characters typed since the prompt

	ticks     <-chan uint64 // millisecond ticks
	countdown int           // seconds left, 0 when not counting
	since     uint64        // tick the current second started at
}

// New boots the console with the built-in font and returns the step
// function the host runner calls every tick.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// NewWithConfig boots the console with the resources named by cfg.
// Resources that fail to load are reported and left out.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s, err := newSystem(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return s.guard(s.step)
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	s := &system{log: h.Logger(), pool: mem.NewHeap(cfg.PoolLimit)}
	if in := h.Input(); in != nil {
		s.kbd = in.Keyboard()
	}
	if t := h.Time(); t != nil {
		s.ticks = t.Ticks()
	}
	if err := s.openConsole(h, s.loadResources(cfg)); err != nil {
		return nil, err
	}
	s.boot(cfg)
	return s, nil
}

func (s *system) logf(format string, args ...any) {
	if s.log != nil {
		s.log.WriteLineString(fmt.Sprintf(format, args...))
	}
}

func (s *system) load(what, path string) []byte {
	if path == "" {
		return nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		s.logf("ERROR: can't read %s %s: %v", what, path, err)
		return nil
	}
	return blob
}

func (s *system) loadResources(cfg Config) atop.Config {
	acfg := atop.Config{
		Pool:     s.pool,
		Rotation: cfg.Rotation,
		Newline:  cfg.Newline,
		Resync:   cfg.Resync,
	}
	if blob := s.load("single-byte font", cfg.ANKPath); blob != nil {
		if f, err := fontx2.ParseANK(blob); err != nil {
			s.logf("ERROR: %s: %v", cfg.ANKPath, err)
		} else {
			acfg.Font = f
		}
	}
	if blob := s.load("code page", cfg.CodepagePath); blob != nil {
		if t, err := cp932.Build(blob, s.pool); err != nil {
			s.logf("ERROR: %s: %v", cfg.CodepagePath, err)
		} else {
			acfg.Codepage = t
			s.logf("bootcon: %d code page entries", t.Mapped())
		}
	}
	if blob := s.load("double-byte font", cfg.FontPath); blob != nil {
		if f, err := fontx2.Parse(blob); err != nil {
			s.logf("ERROR: %s: %v", cfg.FontPath, err)
		} else {
			acfg.Wide = f
			s.logf("bootcon: font %q %dx%d, %d glyphs", f.Name(), f.Width(), f.Height(), f.Len())
		}
	}
	return acfg
}

// openConsole starts the framebuffer console. When the console does not
// fit, a plain terminal on the framebuffer takes its place; with no usable
// graphics device the serial line does.
func (s *system) openConsole(h hal.HAL, acfg atop.Config) error {
	var fb hal.Framebuffer
	if disp := h.Display(); disp != nil {
		fb = disp.Framebuffer()
	}
	if fb != nil {
		dev, err := gop.NewFramebuffer(fb)
		if err == nil {
			var con *atop.Console
			if con, err = atop.New(dev, acfg); err == nil {
				s.dev, s.screen, s.out = dev, dev, con
				return nil
			}
		}
		s.logf("bootcon: graphics console: %v", err)
		if dev != nil {
			term, terr := newTerminal(dev)
			if terr == nil {
				s.screen = dev
				s.out = atop.NewStreamOutput(term, acfg.Newline)
				s.logf("bootcon: using the framebuffer terminal")
				s.echo("console unavailable: " + err.Error() + "\n")
				return nil
			}
			s.logf("bootcon: framebuffer terminal: %v", terr)
			bootScreen(dev, "console unavailable:", err.Error())
		}
	}
	ser := h.Serial()
	if ser == nil {
		return fmt.Errorf("app: no display and no serial line: %w", atop.ErrDeviceError)
	}
	s.out = atop.NewStreamOutput(ser, acfg.Newline)
	s.logf("bootcon: using the serial console")
	return nil
}

func (s *system) boot(cfg Config) {
	if cfg.Mode != 0 {
		if err := s.out.SetMode(cfg.Mode); err != nil {
			s.logf("bootcon: %v", err)
		}
	}
	_ = s.out.ClearScreen()

	shown := false
	if s.dev != nil {
		if blob := s.load("splash", cfg.SplashPath); blob != nil {
			var err error
			shown, err = splash.Show(s.dev, splash.Static{Image: blob, Center: true}, s.pool)
			if err != nil {
				s.logf("ERROR: %s: %v", cfg.SplashPath, err)
			}
		}
	}
	if !shown {
		s.printCenter(-5, "Starting...")
	}
	s.printCenter(-3, "bootcon "+buildinfo.Short())

	_, rows, _ := s.out.QueryMode(s.out.Mode().Mode)
	_ = s.out.SetCursorPosition(0, min(rows/2+1, rows-1))
	s.echo(prompt)
	_ = s.out.EnableCursor(true)

	if cfg.Countdown > 0 && s.ticks != nil {
		s.countdown = cfg.Countdown
		s.status(s.countdownText())
	}
}

const statusWidth = 40

func (s *system) countdownText() string {
	return fmt.Sprintf("Autoboot in %d s, press any key to stop", s.countdown)
}

// status prints msg centered on the status line and puts the cursor back.
// Messages are padded to the same width so a shorter one covers a longer.
func (s *system) status(msg string) {
	pad := max(0, statusWidth-atop.DisplayWidth([]byte(msg)))
	msg = strings.Repeat(" ", pad/2) + msg + strings.Repeat(" ", pad-pad/2)
	m := s.out.Mode()
	s.printCenter(-1, msg)
	_ = s.out.SetCursorPosition(m.CursorColumn, m.CursorRow)
}

// tick advances the countdown by the ticks that arrived since the last
// step.
func (s *system) tick() {
	for drained := false; !drained; {
		select {
		case seq := <-s.ticks:
			if s.countdown == 0 {
				continue
			}
			if s.since == 0 {
				s.since = seq
			}
			for s.countdown > 0 && seq-s.since >= 1000 {
				s.since += 1000
				s.countdown--
				if s.countdown > 0 {
					s.status(s.countdownText())
				} else {
					s.status("Starting OS...")
					s.logf("bootcon: autoboot")
				}
			}
		default:
			drained = true
		}
	}
}

// printCenter prints msg centered on the row off lines below the middle.
func (s *system) printCenter(off int, msg string) {
	cols, rows, err := s.out.QueryMode(s.out.Mode().Mode)
	if err != nil || rows == 0 {
		return
	}
	col := max(0, (cols-atop.DisplayWidth([]byte(msg)))/2)
	row := min(max(0, rows/2+off), rows-1)
	if err := s.out.SetCursorPosition(col, row); err != nil {
		return
	}
	s.echo(msg)
}

func (s *system) echo(text string) {
	if err := s.out.OutputString([]byte(text)); err != nil && !atop.IsWarning(err) {
		s.logf("bootcon: %v", err)
	}
}

func (s *system) key(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	if s.countdown > 0 {
		s.countdown = 0
		s.status("Autoboot stopped")
	}
	switch {
	case ev.Rune != 0:
		text := string(ev.Rune)
		s.line = append(s.line, atop.DisplayWidth([]byte(text)))
		s.echo(text)
	case ev.Code == hal.KeyEnter:
		s.line = s.line[:0]
		s.echo("\n" + prompt)
	case ev.Code == hal.KeyBackspace && len(s.line) > 0:
		w := s.line[len(s.line)-1]
		s.line = s.line[:len(s.line)-1]
		back := strings.Repeat("\b", w)
		s.echo(back + strings.Repeat(" ", w) + back)
	}
}

// step echoes pending key presses, runs the countdown and presents the
// screen.
func (s *system) step() error {
	if s.ticks != nil {
		s.tick()
	}
	if s.kbd != nil {
		events := s.kbd.Events()
		for drained := false; !drained; {
			select {
			case ev := <-events:
				s.key(ev)
			default:
				drained = true
			}
		}
	}
	if s.screen != nil {
		return s.screen.Present()
	}
	return nil
}
