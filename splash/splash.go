// Package splash decodes the vendor boot-splash bitmap and blits it onto the
// screen.
//
// The bitmap is an uncompressed BMP with 24 or 32 bits per pixel. The
// firmware publishes it together with a screen position; Source stands in
// for that lookup.
package splash

import (
	"encoding/binary"
	"errors"
	"fmt"

	"bootcon/gop"
	"bootcon/mem"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("bootcon.splash")
}

var (
	// ErrMalformed is returned for blobs that are not a readable BMP.
	ErrMalformed = errors.New("splash: malformed bitmap")

	// ErrUnsupportedDepth is returned for bitmaps other than 24 or 32 bpp.
	ErrUnsupportedDepth = errors.New("splash: unsupported color depth")
)

// BMP header fields.
const (
	offPixels = 10
	offWidth  = 18
	offHeight = 22
	offDepth  = 28
	headerLen = 30

	maxSide = 1 << 14
)

// Image is a decoded splash bitmap in blt buffer layout, top row first.
type Image struct {
	Width  int
	Height int
	pix    []byte
}

// Parse decodes a BMP blob. The pixel buffer is taken from pool, or from
// the Go heap when pool is nil.
func Parse(blob []byte, pool mem.Pool) (*Image, error) {
	if len(blob) < headerLen || blob[0] != 'B' || blob[1] != 'M' {
		return nil, fmt.Errorf("splash: %d byte header: %w", len(blob), ErrMalformed)
	}
	le := binary.LittleEndian
	offset := int(le.Uint32(blob[offPixels:]))
	w := int(int32(le.Uint32(blob[offWidth:])))
	h := int(int32(le.Uint32(blob[offHeight:])))
	depth := int(le.Uint16(blob[offDepth:]))

	topDown := h < 0
	if topDown {
		h = -h
	}
	if w <= 0 || h <= 0 || w > maxSide || h > maxSide {
		return nil, fmt.Errorf("splash: size %dx%d: %w", w, h, ErrMalformed)
	}
	if depth != 24 && depth != 32 {
		return nil, fmt.Errorf("splash: %d bpp: %w", depth, ErrUnsupportedDepth)
	}
	step := depth / 8
	stride := (step*w + 3) &^ 3
	if offset < headerLen || offset > len(blob) || len(blob)-offset < stride*(h-1)+step*w {
		return nil, fmt.Errorf("splash: pixel data at %#x for %dx%d: %w", offset, w, h, ErrMalformed)
	}

	n := w * h * gop.PixelBytes
	var pix []byte
	if pool != nil {
		buf, err := pool.Allocate(n)
		if err != nil {
			return nil, fmt.Errorf("splash: %dx%d buffer: %w", w, h, err)
		}
		pix = buf
	} else {
		pix = make([]byte, n)
	}

	data := blob[offset:]
	q := 0
	for y := 0; y < h; y++ {
		src := h - 1 - y
		if topDown {
			src = y
		}
		row := data[src*stride:]
		for x := 0; x < w; x++ {
			p := row[x*step:]
			gop.Put(pix, q, gop.RGB(p[2], p[1], p[0]))
			q += gop.PixelBytes
		}
	}
	tracer().Debugf("splash: %dx%d %d bpp, top-down=%v", w, h, depth, topDown)
	return &Image{Width: w, Height: h, pix: pix}, nil
}

// At returns the pixel at (x, y), top row first.
func (img *Image) At(x, y int) gop.Pixel {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return 0
	}
	return gop.Get(img.pix, (y*img.Width+x)*gop.PixelBytes)
}

// Release returns the pixel buffer to pool.
func (img *Image) Release(pool mem.Pool) {
	if pool != nil {
		pool.Free(img.pix)
	}
	img.pix = nil
}

// Draw blits the image with its top left corner at physical (x, y). Parts
// off screen are clipped; an image entirely off screen draws nothing.
func (img *Image) Draw(dev gop.Device, x, y int) error {
	info := dev.Info()
	sx, sy := max(0, -x), max(0, -y)
	dx, dy := max(0, x), max(0, y)
	w := min(img.Width-sx, info.HorizontalResolution-dx)
	h := min(img.Height-sy, info.VerticalResolution-dy)
	if w <= 0 || h <= 0 {
		tracer().Infof("splash: %dx%d at (%d,%d) is off screen", img.Width, img.Height, x, y)
		return nil
	}
	err := dev.Blt(img.pix, gop.BufferToVideo, sx, sy, dx, dy, w, h, img.Width*gop.PixelBytes)
	if err != nil {
		return fmt.Errorf("splash: blt %dx%d at (%d,%d): %w", w, h, dx, dy, err)
	}
	return nil
}

// Centered returns the position that centers a w x h image on the device.
func Centered(dev gop.Device, w, h int) (x, y int) {
	info := dev.Info()
	return (info.HorizontalResolution - w) / 2, (info.VerticalResolution - h) / 2
}

// Resource is a splash bitmap as published by the firmware.
type Resource struct {
	Image   []byte
	OffsetX int
	OffsetY int
	// Center ignores the offsets and centers the image on the screen.
	Center bool
}

// Source locates the splash bitmap.
type Source interface {
	Locate() (Resource, bool)
}

// Static is a Source that always returns the same resource.
type Static Resource

func (s Static) Locate() (Resource, bool) {
	return Resource(s), len(s.Image) > 0
}

// Show draws the splash found by src. It reports false when src has none.
func Show(dev gop.Device, src Source, pool mem.Pool) (bool, error) {
	if src == nil {
		return false, nil
	}
	res, ok := src.Locate()
	if !ok {
		return false, nil
	}
	img, err := Parse(res.Image, pool)
	if err != nil {
		tracer().Errorf("splash: %v", err)
		return false, err
	}
	defer img.Release(pool)
	x, y := res.OffsetX, res.OffsetY
	if res.Center {
		x, y = Centered(dev, img.Width, img.Height)
	}
	if err := img.Draw(dev, x, y); err != nil {
		return false, err
	}
	return true, nil
}
