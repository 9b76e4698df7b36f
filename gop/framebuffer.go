package gop

import (
	"encoding/binary"
	"fmt"
	"image/color"

	"bootcon/hal"

	"tinygo.org/x/drivers"
)

// Framebuffer is a Device over a linear XRGB8888 hal.Framebuffer.
//
// It exposes a single mode matching the framebuffer size. It also
// implements drivers.Displayer so tinyfont and other TinyGo renderers can
// draw on the same surface.
type Framebuffer struct {
	fb hal.Framebuffer
}

var (
	_ Device            = (*Framebuffer)(nil)
	_ drivers.Displayer = (*Framebuffer)(nil)
)

// NewFramebuffer wraps fb. Only PixelFormatXRGB8888 is supported.
func NewFramebuffer(fb hal.Framebuffer) (*Framebuffer, error) {
	if fb == nil {
		return nil, fmt.Errorf("gop: nil framebuffer: %w", ErrInvalidParameter)
	}
	if fb.Format() != hal.PixelFormatXRGB8888 {
		return nil, fmt.Errorf("gop: pixel format %d: %w", fb.Format(), ErrUnsupported)
	}
	if fb.StrideBytes() < fb.Width()*PixelBytes || len(fb.Buffer()) < fb.StrideBytes()*fb.Height() {
		return nil, fmt.Errorf("gop: framebuffer smaller than %dx%d: %w", fb.Width(), fb.Height(), ErrInvalidParameter)
	}
	return &Framebuffer{fb: fb}, nil
}

func (d *Framebuffer) MaxMode() int { return 1 }
func (d *Framebuffer) Mode() int    { return 0 }

func (d *Framebuffer) Info() ModeInfo {
	return ModeInfo{
		HorizontalResolution: d.fb.Width(),
		VerticalResolution:   d.fb.Height(),
		PixelsPerScanLine:    d.fb.StrideBytes() / PixelBytes,
	}
}

func (d *Framebuffer) QueryMode(n int) (ModeInfo, error) {
	if n != 0 {
		return ModeInfo{}, fmt.Errorf("gop: mode %d: %w", n, ErrUnsupported)
	}
	return d.Info(), nil
}

func (d *Framebuffer) SetMode(n int) error {
	if n != 0 {
		return fmt.Errorf("gop: mode %d: %w", n, ErrUnsupported)
	}
	return nil
}

// Present flushes the framebuffer to the screen.
func (d *Framebuffer) Present() error { return d.fb.Present() }

func (d *Framebuffer) inside(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && w > 0 && h > 0 && x+w <= d.fb.Width() && y+h <= d.fb.Height()
}

func bufferFits(buf []byte, x, y, w, h, delta int) bool {
	if x < 0 || y < 0 || delta < (x+w)*PixelBytes {
		return false
	}
	return (y+h-1)*delta+(x+w)*PixelBytes <= len(buf)
}

func (d *Framebuffer) Blt(buf []byte, op BltOp, sx, sy, dx, dy, w, h, delta int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("gop: %s %dx%d: %w", op, w, h, ErrInvalidParameter)
	}
	if delta == 0 {
		delta = w * PixelBytes
	}
	fbuf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	rowBytes := w * PixelBytes

	switch op {
	case VideoFill:
		if len(buf) < PixelBytes || !d.inside(dx, dy, w, h) {
			return fmt.Errorf("gop: %s at (%d,%d) %dx%d: %w", op, dx, dy, w, h, ErrInvalidParameter)
		}
		pixel := binary.LittleEndian.Uint32(buf) & 0x00FFFFFF
		for y := dy; y < dy+h; y++ {
			row := fbuf[y*stride+dx*PixelBytes : y*stride+dx*PixelBytes+rowBytes]
			for i := 0; i < len(row); i += PixelBytes {
				binary.LittleEndian.PutUint32(row[i:], pixel)
			}
		}

	case VideoToBltBuffer:
		if !d.inside(sx, sy, w, h) || !bufferFits(buf, dx, dy, w, h, delta) {
			return fmt.Errorf("gop: %s (%d,%d) %dx%d: %w", op, sx, sy, w, h, ErrInvalidParameter)
		}
		for i := 0; i < h; i++ {
			src := (sy+i)*stride + sx*PixelBytes
			dst := (dy+i)*delta + dx*PixelBytes
			copy(buf[dst:dst+rowBytes], fbuf[src:src+rowBytes])
		}

	case BufferToVideo:
		if !d.inside(dx, dy, w, h) || !bufferFits(buf, sx, sy, w, h, delta) {
			return fmt.Errorf("gop: %s (%d,%d) %dx%d: %w", op, dx, dy, w, h, ErrInvalidParameter)
		}
		for i := 0; i < h; i++ {
			src := (sy+i)*delta + sx*PixelBytes
			dst := (dy+i)*stride + dx*PixelBytes
			copy(fbuf[dst:dst+rowBytes], buf[src:src+rowBytes])
		}

	case VideoToVideo:
		if !d.inside(sx, sy, w, h) || !d.inside(dx, dy, w, h) {
			return fmt.Errorf("gop: %s (%d,%d)->(%d,%d) %dx%d: %w", op, sx, sy, dx, dy, w, h, ErrInvalidParameter)
		}
		// Walk rows away from the overlap so the source is read before it is
		// overwritten; copy itself handles overlap within a row.
		if dy <= sy {
			for i := 0; i < h; i++ {
				d.copyRow(sx, sy+i, dx, dy+i, rowBytes)
			}
		} else {
			for i := h - 1; i >= 0; i-- {
				d.copyRow(sx, sy+i, dx, dy+i, rowBytes)
			}
		}

	default:
		return fmt.Errorf("gop: blt op %d: %w", op, ErrUnsupported)
	}
	return nil
}

func (d *Framebuffer) copyRow(sx, sy, dx, dy, n int) {
	fbuf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	src := sy*stride + sx*PixelBytes
	dst := dy*stride + dx*PixelBytes
	copy(fbuf[dst:dst+n], fbuf[src:src+n])
}

// PixelAt returns the pixel at (x, y), or 0 outside the screen.
func (d *Framebuffer) PixelAt(x, y int) Pixel {
	if !d.inside(x, y, 1, 1) {
		return 0
	}
	return Get(d.fb.Buffer(), y*d.fb.StrideBytes()+x*PixelBytes)
}

// Size implements drivers.Displayer.
func (d *Framebuffer) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

// SetPixel implements drivers.Displayer.
func (d *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if !d.inside(ix, iy, 1, 1) {
		return
	}
	Put(d.fb.Buffer(), iy*d.fb.StrideBytes()+ix*PixelBytes, RGB(c.R, c.G, c.B))
}

// Display implements drivers.Displayer.
func (d *Framebuffer) Display() error { return d.fb.Present() }

// FillRectangle paints a rectangle, cut to the screen, in c. With SetScroll
// and SetRotation it makes the framebuffer a tinyterm display.
func (d *Framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1, y1 := min(int(x)+int(width), d.fb.Width()), min(int(y)+int(height), d.fb.Height())
	if x1 <= x0 || y1 <= y0 {
		return nil
	}
	return d.Blt(FillColor(RGB(c.R, c.G, c.B)), VideoFill, 0, 0, x0, y0, x1-x0, y1-y0, 0)
}

// SetScroll is a no-op: a linear framebuffer has no hardware scroll.
func (d *Framebuffer) SetScroll(line int16) {}

// SetRotation accepts only the unrotated panel. Rotated text is drawn by
// the console itself.
func (d *Framebuffer) SetRotation(rotation drivers.Rotation) error {
	if rotation != drivers.Rotation0 {
		return fmt.Errorf("gop: rotation %d: %w", rotation, ErrUnsupported)
	}
	return nil
}
