// Package gop models the firmware graphics output capability: mode queries
// and the four-operation block transfer (blt) primitive the display core is
// built on.
package gop

import (
	"encoding/binary"
	"errors"
	"image/color"
)

var (
	// ErrInvalidParameter is returned for rectangles outside the device or
	// buffer, or for malformed buffers.
	ErrInvalidParameter = errors.New("gop: invalid parameter")

	// ErrUnsupported is returned for unknown modes or blt operations.
	ErrUnsupported = errors.New("gop: unsupported")
)

// Pixel is a 32-bit 0x00RRGGBB color.
type Pixel uint32

// PixelBytes is the size of one pixel in a blt buffer.
const PixelBytes = 4

// RGB builds a Pixel from its components.
func RGB(r, g, b uint8) Pixel {
	return Pixel(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGBA converts p to an opaque color.RGBA.
func (p Pixel) RGBA() color.RGBA {
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xFF}
}

// FromColor converts any color to a Pixel, dropping alpha.
func FromColor(c color.Color) Pixel {
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Put stores p at byte offset off of a blt buffer (B, G, R, reserved).
func Put(buf []byte, off int, p Pixel) {
	binary.LittleEndian.PutUint32(buf[off:off+PixelBytes], uint32(p)&0x00FFFFFF)
}

// Get loads the pixel at byte offset off of a blt buffer.
func Get(buf []byte, off int) Pixel {
	return Pixel(binary.LittleEndian.Uint32(buf[off:off+PixelBytes]) & 0x00FFFFFF)
}

// FillColor returns the one-pixel buffer VideoFill takes its color from.
func FillColor(p Pixel) []byte {
	buf := make([]byte, PixelBytes)
	Put(buf, 0, p)
	return buf
}

// BltOp selects a block transfer operation.
type BltOp uint8

const (
	// VideoFill writes buf's first pixel to the destination rectangle.
	VideoFill BltOp = iota
	// VideoToBltBuffer copies a screen rectangle into buf.
	VideoToBltBuffer
	// BufferToVideo copies a rectangle of buf to the screen.
	BufferToVideo
	// VideoToVideo copies a screen rectangle to another screen position.
	VideoToVideo
)

func (op BltOp) String() string {
	switch op {
	case VideoFill:
		return "VideoFill"
	case VideoToBltBuffer:
		return "VideoToBltBuffer"
	case BufferToVideo:
		return "BufferToVideo"
	case VideoToVideo:
		return "VideoToVideo"
	default:
		return "BltOp(?)"
	}
}

// ModeInfo describes one video mode.
type ModeInfo struct {
	HorizontalResolution int
	VerticalResolution   int
	PixelsPerScanLine    int
}

// Device is the graphics output capability.
//
// Blt follows firmware conventions: delta is the byte length of one buffer
// row (0 means w*PixelBytes), source coordinates apply to the screen for
// VideoToBltBuffer/VideoToVideo and to buf for BufferToVideo, destination
// coordinates the other way round.
type Device interface {
	MaxMode() int
	Mode() int
	Info() ModeInfo
	QueryMode(n int) (ModeInfo, error)
	SetMode(n int) error
	Blt(buf []byte, op BltOp, sx, sy, dx, dy, w, h, delta int) error
}
