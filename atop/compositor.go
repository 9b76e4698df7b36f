package atop

import (
	"bootcon/gop"
	"bootcon/mem"
)

// compositor draws in logical screen space on a device. When rotate is set
// the logical screen is the physical one turned by 90 degrees: logical x
// runs down the panel and logical y runs right to left.
type compositor struct {
	dev    gop.Device
	pool   mem.Pool
	rotate bool
	physW  int // physical resolution
	physH  int

	scratch []byte // pattern read-modify-write buffer
	staging []byte // rotated scroll buffer
}

// transform maps a logical rectangle to the physical one covering it.
func (c *compositor) transform(x, y, w, h int) (int, int, int, int) {
	if !c.rotate {
		return x, y, w, h
	}
	return c.physW - y - h, x, h, w
}

// point maps a logical pixel to its physical position.
func (c *compositor) point(x, y int) (int, int) {
	if !c.rotate {
		return x, y
	}
	return c.physW - 1 - y, x
}

// clip limits a physical rectangle to the screen.
func (c *compositor) clip(x, y, w, h int) (int, int, int, int, bool) {
	r, b := x+w, y+h
	x, y = max(x, 0), max(y, 0)
	r, b = min(r, c.physW), min(b, c.physH)
	if r <= x || b <= y {
		return 0, 0, 0, 0, false
	}
	return x, y, r - x, b - y, true
}

// fillRect paints a logical rectangle. Parts off screen are dropped.
func (c *compositor) fillRect(x, y, w, h int, color gop.Pixel) {
	px, py, pw, ph, ok := c.clip(c.transform(x, y, w, h))
	if !ok {
		return
	}
	if err := c.dev.Blt(gop.FillColor(color), gop.VideoFill, 0, 0, px, py, pw, ph, 0); err != nil {
		tracer().Errorf("atop: fill %dx%d at (%d,%d): %v", pw, ph, px, py, err)
	}
}

// drawPattern sets the pixels of a 1-bpp bitmap, MSB first with rows padded
// to whole bytes, to color. Clear bits leave the screen untouched.
func (c *compositor) drawPattern(x, y, w, h int, bits []byte, color gop.Pixel) {
	w8 := (w + 7) / 8
	if len(bits) < w8*h {
		return
	}
	px, py, pw, ph, ok := c.clip(c.transform(x, y, w, h))
	if !ok {
		return
	}
	buf := c.scratchBuffer(pw * ph * gop.PixelBytes)
	if buf == nil {
		return
	}
	if err := c.dev.Blt(buf, gop.VideoToBltBuffer, px, py, 0, 0, pw, ph, 0); err != nil {
		tracer().Errorf("atop: pattern read at (%d,%d): %v", px, py, err)
		return
	}
	for j := 0; j < h; j++ {
		row := bits[j*w8 : (j+1)*w8]
		for i := 0; i < w; i++ {
			if row[i>>3]&(0x80>>(i&7)) == 0 {
				continue
			}
			qx, qy := c.point(x+i, y+j)
			qx, qy = qx-px, qy-py
			if qx < 0 || qy < 0 || qx >= pw || qy >= ph {
				continue
			}
			gop.Put(buf, (qy*pw+qx)*gop.PixelBytes, color)
		}
	}
	if err := c.dev.Blt(buf, gop.BufferToVideo, 0, 0, px, py, pw, ph, 0); err != nil {
		tracer().Errorf("atop: pattern write at (%d,%d): %v", px, py, err)
	}
}

// scratchBuffer returns at least n bytes drawn from the pool. The buffer is
// kept for later patterns and only grows.
func (c *compositor) scratchBuffer(n int) []byte {
	if len(c.scratch) >= n {
		return c.scratch[:n]
	}
	buf, err := c.pool.Allocate(n)
	if err != nil {
		tracer().Errorf("atop: pattern buffer: %v", err)
		return nil
	}
	c.pool.Free(c.scratch)
	c.scratch = buf
	return buf
}

// allocStaging reserves the rotated scroll buffer, one full screen.
func (c *compositor) allocStaging() {
	if !c.rotate || c.staging != nil {
		return
	}
	buf, err := c.pool.Allocate(c.physW * c.physH * gop.PixelBytes)
	if err != nil {
		tracer().Errorf("atop: scroll staging buffer: %v", err)
		return
	}
	c.staging = buf
}

// size returns the logical screen size.
func (c *compositor) size() (w, h int) {
	if c.rotate {
		return c.physH, c.physW
	}
	return c.physW, c.physH
}

// moveUp copies the logical rectangle (x, y+dy, w, h) to (x, y, w, h). The
// source is first cut to the screen; moveUp returns the height it moved.
func (c *compositor) moveUp(x, y, w, h, dy int) int {
	scrW, scrH := c.size()
	w = min(w, scrW-x)
	h = min(h, scrH-y-dy)
	if w <= 0 || h <= 0 {
		return 0
	}
	sx, sy, pw, ph := c.transform(x, y+dy, w, h)
	dx, dyy, _, _ := c.transform(x, y, w, h)

	if !c.rotate {
		if err := c.dev.Blt(nil, gop.VideoToVideo, sx, sy, dx, dyy, pw, ph, 0); err != nil {
			tracer().Errorf("atop: scroll: %v", err)
		}
		return h
	}

	// Rotated, the text moves sideways across the panel; copy it through
	// the staging buffer.
	if c.staging == nil {
		tracer().Infof("atop: no staging buffer, scroll copy skipped")
		return h
	}
	delta := pw * gop.PixelBytes
	if err := c.dev.Blt(c.staging, gop.VideoToBltBuffer, sx, sy, 0, 0, pw, ph, delta); err != nil {
		tracer().Errorf("atop: scroll read: %v", err)
		return h
	}
	if err := c.dev.Blt(c.staging, gop.BufferToVideo, 0, 0, dx, dyy, pw, ph, delta); err != nil {
		tracer().Errorf("atop: scroll write: %v", err)
	}
	return h
}
