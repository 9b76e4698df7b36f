package cp932

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Encode returns the blob listing points in sequence order.
func Encode(points []uint16) ([]byte, error) {
	if len(points) > Capacity {
		return nil, fmt.Errorf("cp932: %d entries, sequence holds %d: %w", len(points), Capacity, ErrTooManyEntries)
	}
	blob := binary.LittleEndian.AppendUint16(make([]byte, 0, 2+2*len(points)), uint16(len(points)))
	for _, p := range points {
		blob = binary.LittleEndian.AppendUint16(blob, p)
	}
	return blob, nil
}

// Decode returns the Unicode scalar for a double-byte code, or false when
// Shift_JIS has no BMP character there.
func Decode(code uint16) (rune, bool) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes([]byte{byte(code >> 8), byte(code)})
	if err != nil {
		return 0, false
	}
	r, size := utf8.DecodeRune(out)
	if r == utf8.RuneError || size != len(out) || r < 0x80 || r >= TableSize {
		return 0, false
	}
	return r, true
}

// Points walks the generation sequence and returns the code point for each
// code, up to the last mapped one. A scalar reachable from several codes
// keeps its first code; later duplicates become placeholders.
func Points() []uint16 {
	var points []uint16
	seen := make(map[rune]bool)
	last := 0
	for code := range Sequence() {
		r, ok := Decode(code)
		if !ok || seen[r] {
			points = append(points, 0)
			continue
		}
		seen[r] = true
		points = append(points, uint16(r))
		last = len(points)
	}
	return points[:last]
}

// FromShiftJIS builds the standard blob from the Shift_JIS tables of
// golang.org/x/text.
func FromShiftJIS() ([]byte, error) {
	return Encode(Points())
}
