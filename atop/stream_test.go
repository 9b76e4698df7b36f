package atop

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamOutput(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamOutput(&buf, NewlineCRLF)
	assert.Equal(t, "\x1b[22;37;40m", buf.String())
	buf.Reset()

	require.NoError(t, s.OutputString([]byte("AB\n")))
	assert.Equal(t, "AB\r\n", buf.String())
	m := s.Mode()
	assert.Equal(t, 0, m.CursorColumn)
	assert.Equal(t, 1, m.CursorRow)
	buf.Reset()

	require.NoError(t, s.SetAttribute(0x1E))
	assert.Equal(t, "\x1b[1;33;44m", buf.String())
	buf.Reset()

	require.NoError(t, s.SetCursorPosition(4, 2))
	assert.Equal(t, "\x1b[3;5H", buf.String())
	assert.ErrorIs(t, s.SetCursorPosition(80, 0), ErrUnsupported)

	require.NoError(t, s.OutputString([]byte("漢x")))
	assert.Equal(t, 7, s.Mode().CursorColumn)
}

func TestStreamLineFeed(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamOutput(&buf, NewlineLF)
	buf.Reset()
	require.NoError(t, s.OutputString([]byte("AB\n")))
	assert.Equal(t, "AB\n", buf.String())
	assert.Equal(t, 2, s.Mode().CursorColumn)
}

func TestStreamModes(t *testing.T) {
	s := NewStreamOutput(&bytes.Buffer{}, NewlineCRLF)
	cols, rows, err := s.QueryMode(0)
	require.NoError(t, err)
	assert.Equal(t, 80, cols)
	assert.Equal(t, 25, rows)
	_, _, err = s.QueryMode(1)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, s.SetMode(2), ErrUnsupported)
	assert.NoError(t, s.TestString([]byte("あいう")))
	assert.ErrorIs(t, s.TestString([]byte{0xE3, 0x81}), ErrUnsupported)
	assert.ErrorIs(t, s.TestString([]byte("😀")), ErrUnsupported)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("line down") }

func TestStreamWriteError(t *testing.T) {
	s := NewStreamOutput(failingWriter{}, NewlineCRLF)
	assert.ErrorIs(t, s.OutputString([]byte("x")), ErrDeviceError)
	assert.ErrorIs(t, s.ClearScreen(), ErrDeviceError)
	_, err := s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrDeviceError)
}
