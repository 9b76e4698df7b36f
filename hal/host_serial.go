package hal

import (
	"io"
	"sync"
)

// hostSerial stands in for the firmware serial port. The loader's output
// goes to out and key input comes from in; either may be nil. Each Write
// reaches out whole, so escape sequences from two writers never mix.
type hostSerial struct {
	mu  sync.Mutex
	in  io.Reader
	out io.Writer
}

func newHostSerial(in io.Reader, out io.Writer) *hostSerial {
	return &hostSerial{in: in, out: out}
}

func (s *hostSerial) Read(p []byte) (int, error) {
	if s.in == nil {
		return 0, ErrNotImplemented
	}
	return s.in.Read(p)
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.out == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}
