package atop

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// streamCols and streamRows are the fixed grid of a stream console.
const (
	streamCols = 80
	streamRows = 25
)

// ansiColor maps palette indices to ANSI color numbers.
var ansiColor = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// StreamOutput is a TextOutput over a VT100 byte stream, such as a serial
// line. It stands in for the framebuffer console when there is no graphics
// device. The grid is a fixed 80x25 and the terminal does the drawing.
type StreamOutput struct {
	w       io.Writer
	newline Newline
	attr    uint8
	col     int
	row     int
	visible bool
}

var _ TextOutput = (*StreamOutput)(nil)

// NewStreamOutput returns a console writing to w with the default attribute.
func NewStreamOutput(w io.Writer, newline Newline) *StreamOutput {
	s := &StreamOutput{w: w, newline: newline, visible: true}
	_ = s.SetAttribute(DefaultAttribute)
	return s
}

func (s *StreamOutput) emit(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.w, format, args...); err != nil {
		return fmt.Errorf("atop: stream: %v: %w", err, ErrDeviceError)
	}
	return nil
}

func (s *StreamOutput) Reset(extended bool) error {
	if err := s.emit("\x1b[0m"); err != nil {
		return err
	}
	if err := s.SetAttribute(DefaultAttribute); err != nil {
		return err
	}
	return s.ClearScreen()
}

// OutputString passes s to the terminal, tracking the cursor column for
// ASCII text only.
func (s *StreamOutput) OutputString(p []byte) error {
	out := p
	if s.newline == NewlineCRLF {
		out = make([]byte, 0, len(p))
		for _, b := range p {
			if b == '\n' {
				out = append(out, '\r')
			}
			out = append(out, b)
		}
	}
	if _, err := s.w.Write(out); err != nil {
		return fmt.Errorf("atop: stream: %v: %w", err, ErrDeviceError)
	}
	for _, b := range out {
		switch {
		case b == '\r':
			s.col = 0
		case b == '\n':
			s.row = min(s.row+1, streamRows-1)
		case b == '\b':
			s.col = max(s.col-1, 0)
		case b >= 0x20 && b < 0x7F:
			s.col++
		case b >= 0xC0:
			s.col += 2
		}
		if s.col >= streamCols {
			s.col -= streamCols
			s.row = min(s.row+1, streamRows-1)
		}
	}
	return nil
}

// TestString accepts any well-formed UTF-8 within the BMP.
func (s *StreamOutput) TestString(p []byte) error {
	for len(p) > 0 {
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError || r > 0xFFFF {
			return fmt.Errorf("atop: stream cannot show %q: %w", p[:size], ErrUnsupported)
		}
		p = p[size:]
	}
	return nil
}

func (s *StreamOutput) QueryMode(n int) (cols, rows int, err error) {
	if n != 0 {
		return 0, 0, fmt.Errorf("atop: stream mode %d: %w", n, ErrUnsupported)
	}
	return streamCols, streamRows, nil
}

func (s *StreamOutput) SetMode(n int) error {
	if n != 0 {
		return fmt.Errorf("atop: stream mode %d: %w", n, ErrUnsupported)
	}
	return nil
}

func (s *StreamOutput) SetAttribute(attr uint8) error {
	if attr == 0 {
		attr = DefaultAttribute
	}
	s.attr = attr
	fg, bg := attr&0x0F, attr>>4&0x0F
	bold := 22
	if fg >= 8 {
		bold = 1
	}
	return s.emit("\x1b[%d;%d;%dm", bold, 30+ansiColor[fg&7], 40+ansiColor[bg&7])
}

func (s *StreamOutput) ClearScreen() error {
	s.col, s.row = 0, 0
	return s.emit("\x1b[2J\x1b[H")
}

func (s *StreamOutput) SetCursorPosition(col, row int) error {
	if col < 0 || col >= streamCols || row < 0 || row >= streamRows {
		return fmt.Errorf("atop: cursor (%d,%d): %w", col, row, ErrUnsupported)
	}
	s.col, s.row = col, row
	return s.emit("\x1b[%d;%dH", row+1, col+1)
}

func (s *StreamOutput) EnableCursor(visible bool) error {
	s.visible = visible
	if visible {
		return s.emit("\x1b[?25h")
	}
	return s.emit("\x1b[?25l")
}

// Mode returns a snapshot of the stream console state.
func (s *StreamOutput) Mode() Mode {
	return Mode{
		MaxMode:       1,
		Attribute:     s.attr,
		CursorColumn:  s.col,
		CursorRow:     s.row,
		CursorVisible: s.visible,
	}
}

// Write implements io.Writer.
func (s *StreamOutput) Write(p []byte) (int, error) {
	if err := s.OutputString(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
