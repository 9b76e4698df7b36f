package hal

import (
	"encoding/binary"
	"testing"
)

func TestFramebufferClearRGB(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	if fb.StrideBytes() != 16 {
		t.Fatalf("StrideBytes() = %d, want 16", fb.StrideBytes())
	}
	if fb.Format() != PixelFormatXRGB8888 {
		t.Fatalf("Format() = %d, want XRGB8888", fb.Format())
	}

	fb.ClearRGB(0x12, 0x34, 0x56)
	buf := fb.Buffer()
	for i := 0; i < len(buf); i += 4 {
		if got := binary.LittleEndian.Uint32(buf[i:]); got != 0x123456 {
			t.Fatalf("pixel %d = %#08x, want 0x123456", i/4, got)
		}
	}
}

func TestHostNoDisplay(t *testing.T) {
	h := NewWithConfig(HostConfig{NoDisplay: true})
	if h.Display() != nil {
		t.Fatal("expected nil display")
	}
	if h.Serial() == nil {
		t.Fatal("expected serial console")
	}
}

func TestPixelRoundTrip(t *testing.T) {
	r, g, b := rgbFromXRGB8888(xrgb8888(0xAA, 0x55, 0x01))
	if r != 0xAA || g != 0x55 || b != 0x01 {
		t.Fatalf("round trip = %02x %02x %02x", r, g, b)
	}
}
