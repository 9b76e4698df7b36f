// Package atop is a text console drawn on a raw framebuffer.
//
// A Console turns a byte stream into glyphs on a gop.Device: bytes are decoded
// as UTF-8, each scalar is resolved against a single-byte font or, through a
// CP932 table, a double-byte FONTX2 font, and the result is blitted into a
// grid of fixed cells. The console keeps the cursor, colors and mode table of
// a firmware text output device and exposes them through TextOutput.
//
// Panels mounted at 90 degrees are handled by one logical to physical
// transform shared by every fill, pattern and scroll operation.
//
// Nothing here is safe for concurrent use. Boot firmware runs a single
// thread and so does the console.
package atop

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("bootcon.atop")
}
