package cp932

import "iter"

// Start is the first code of the generation sequence.
const Start = 0x8140

// Next returns the code following code in the generation sequence. Within a
// row the trail byte runs 0x40..0xFC, skipping 0x7F; rows 0xA0..0xDF belong
// to single-byte katakana and are jumped over. ok is false once the sequence
// runs past 0xFFFF.
func Next(code uint16) (next uint16, ok bool) {
	c := uint32(code) + 1
	switch {
	case c&0xFF == 0x7F:
		c++
	case c&0xFF >= 0xFD:
		c += 0x140 - 0xFD
		if c == 0xA040 {
			c = 0xE040
		}
	}
	if c > 0xFFFF {
		return 0, false
	}
	return uint16(c), true
}

// Sequence yields every code of the generation sequence in order.
func Sequence() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		code, ok := uint16(Start), true
		for ok {
			if !yield(code) {
				return
			}
			code, ok = Next(code)
		}
	}
}

// Capacity is the number of codes in the generation sequence: lead bytes
// 0x81..0x9F and 0xE0..0xFF, 188 trail bytes each.
const Capacity = (0xA0 - 0x81 + 0x100 - 0xE0) * (0xFD - 0x40 - 1)
