package main

import (
	"os"
	"path/filepath"
	"testing"

	"bootcon/atop"
	"bootcon/gop"
	"bootcon/hal"
	"bootcon/mem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShell(t *testing.T) *shell {
	t.Helper()
	dev, err := gop.NewFramebuffer(hal.NewFramebuffer(640, 480))
	require.NoError(t, err)
	pool := mem.NewHeap(0)
	con, err := atop.New(dev, atop.Config{Pool: pool})
	require.NoError(t, err)
	return &shell{con: con, dev: dev, pool: pool}
}

func TestExecute(t *testing.T) {
	sh := newShell(t)
	run := func(line string) error {
		quit, err := sh.execute(line)
		require.False(t, quit)
		return err
	}

	require.NoError(t, run(`out AB\n`))
	m := sh.con.Mode()
	assert.Equal(t, 0, m.CursorColumn)
	assert.Equal(t, 1, m.CursorRow)

	require.NoError(t, run("cursor 5 3"))
	require.NoError(t, run("attr 1F"))
	require.NoError(t, run("show on"))
	m = sh.con.Mode()
	assert.Equal(t, 5, m.CursorColumn)
	assert.Equal(t, 3, m.CursorRow)
	assert.Equal(t, uint8(0x1F), m.Attribute)
	assert.True(t, m.CursorVisible)

	assert.ErrorIs(t, run("mode 9"), atop.ErrUnsupported)
	assert.ErrorIs(t, run("test tab\\t"), atop.ErrUnsupported)
	assert.True(t, atop.IsWarning(run(`out \x01`)))
	assert.Error(t, run("cursor 1"))
	assert.Error(t, run("bogus"))
	assert.Error(t, run(`out \q`))

	quit, err := sh.execute("quit")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestSaveScreen(t *testing.T) {
	sh := newShell(t)
	path := filepath.Join(t.TempDir(), "screen.png")
	_, err := sh.execute("save " + path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
