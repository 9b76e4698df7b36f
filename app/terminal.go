package app

import (
	"fmt"

	"bootcon/atop"
	"bootcon/fonts/sbfont"
	"bootcon/gop"

	"tinygo.org/x/tinyterm"
)

var _ tinyterm.Displayer = (*gop.Framebuffer)(nil)

// newTerminal starts a plain VT terminal on d in the built-in font. It is
// the text surface left when the console cannot start on the framebuffer.
func newTerminal(d *gop.Framebuffer) (*tinyterm.Terminal, error) {
	f, err := sbfont.Builtin()
	if err != nil {
		return nil, err
	}
	w, h := d.Size()
	if int(w) < f.Width() || int(h) < f.Height() {
		return nil, fmt.Errorf("app: %dx%d screen holds no %dx%d cell: %w", w, h, f.Width(), f.Height(), atop.ErrUnsupported)
	}
	t := tinyterm.NewTerminal(d)
	t.Configure(&tinyterm.Config{
		Font:              f.Fonter(),
		FontHeight:        int16(f.Height()),
		FontOffset:        int16(f.Ascent()),
		UseSoftwareScroll: true,
	})
	return t, nil
}
