package atop

// DisplayWidth returns the number of cells s occupies when every multi-byte
// character is drawn double width: ASCII bytes count one, lead bytes two and
// continuation bytes nothing. It is meant for centering menu text.
func DisplayWidth(s []byte) int {
	n := 0
	for _, b := range s {
		switch {
		case b < 0x80:
			n++
		case b >= 0xC0:
			n += 2
		}
	}
	return n
}
