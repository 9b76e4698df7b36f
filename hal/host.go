package hal

import (
	"fmt"
	"os"
	"sync"
)

// Default host screen size; the loader expects at least 800x600.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	serial Serial
	noDisp bool
}

// HostConfig describes the emulated host platform.
type HostConfig struct {
	Width  int
	Height int

	// NoDisplay hides the graphics device, as on firmware without GOP.
	NoDisplay bool
}

// New returns a host HAL implementation with the default screen size.
func New() HAL {
	return NewWithConfig(HostConfig{})
}

// NewWithConfig returns a host HAL implementation.
func NewWithConfig(cfg HostConfig) HAL {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	logger := &hostLogger{w: os.Stderr}
	return &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		serial: newHostSerial(os.Stdin, os.Stdout),
		noDisp: cfg.NoDisplay,
	}
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) Input() Input   { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time     { return h.t }
func (h *hostHAL) Serial() Serial { return h.serial }

func (h *hostHAL) Display() Display {
	if h.noDisp {
		return nil
	}
	return hostDisplay{fb: h.fb}
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
