package hal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialLine(t *testing.T) {
	var out bytes.Buffer
	s := newHostSerial(strings.NewReader("key"), &out)
	n, err := s.Write([]byte("\x1b[2J"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "\x1b[2J", out.String())

	p := make([]byte, 8)
	n, err = s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, "key", string(p[:n]))
}

func TestSerialUnwired(t *testing.T) {
	s := newHostSerial(nil, nil)
	_, err := s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = s.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrNotImplemented)
}
