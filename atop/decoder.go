package atop

type decodeState uint8

const (
	stateIdle decodeState = iota
	statePendingLead
	statePendingLead2
)

const (
	// holdMarker is emitted while a multi-byte sequence is incomplete.
	holdMarker rune = 0xFEFF
	// invalidRune stands for a sequence that was given up.
	invalidRune rune = 0xFFFE
)

// decoder is a UTF-8 state machine that survives across calls. It knows
// two and three byte sequences only, so it never yields a scalar beyond the
// BMP.
type decoder struct {
	state  decodeState
	lead   byte
	trail  byte
	resync bool // report abandoned sequences and re-read the ASCII byte
}

// feed consumes b and passes zero, one or two runes to emit.
func (d *decoder) feed(b byte, emit func(rune)) {
	switch {
	case b < 0x80:
		if d.state == stateIdle {
			emit(rune(b))
			return
		}
		d.abandon(emit)
		d.state = stateIdle
		if d.resync {
			emit(rune(b))
		}

	case b < 0xC0:
		switch {
		case d.state == statePendingLead && d.lead < 0xE0:
			emit(rune(d.lead&0x1F)<<6 | rune(b&0x3F))
			d.state = stateIdle
		case d.state == statePendingLead:
			d.trail = b
			d.state = statePendingLead2
			emit(holdMarker)
		case d.state == statePendingLead2:
			emit(rune(d.lead&0x0F)<<12 | rune(d.trail&0x3F)<<6 | rune(b&0x3F))
			d.state = stateIdle
		}

	case b >= 0xC2 && b <= 0xEF:
		d.abandon(emit)
		d.lead = b
		d.state = statePendingLead
		emit(holdMarker)

	default:
		d.abandon(emit)
		d.state = stateIdle
	}
}

func (d *decoder) abandon(emit func(rune)) {
	if d.resync && d.state != stateIdle {
		emit(invalidRune)
	}
}
