// Package cp932 maps Unicode scalars to CP932 (Windows Shift_JIS) double-byte
// codes.
//
// The mapping is shipped as a compact blob: a 16-bit little-endian count M
// followed by M 16-bit Unicode code points. Entry i belongs to the i-th code
// of the double-byte generation sequence (see Next), so the blob never has to
// spell out the legacy codes themselves. A zero code point is a placeholder
// for a legacy code with no Unicode counterpart.
package cp932

import (
	"encoding/binary"
	"errors"
	"fmt"

	"bootcon/mem"

	"github.com/npillmayer/schuko/tracing"
)

// TableSize is the number of entries in a Table, one per BMP scalar.
const TableSize = 0x10000

var (
	// ErrMalformed is returned for blobs shorter than their declared count.
	ErrMalformed = errors.New("cp932: malformed table")
	// ErrTooManyEntries is returned when a blob lists more code points than
	// the generation sequence has codes.
	ErrTooManyEntries = errors.New("cp932: too many entries")
)

func tracer() tracing.Trace {
	return tracing.Select("bootcon.cp932")
}

// Table is a 65536-entry Unicode to CP932 map. 0 means unmapped.
// It is read-only after Build.
type Table struct {
	buf    []byte // TableSize little-endian uint16 entries
	mapped int
}

// Build replays blob into a new table. The table storage is drawn from pool
// when it is not nil, so exhaustion surfaces as mem.ErrOutOfResources.
func Build(blob []byte, pool mem.Pool) (*Table, error) {
	if len(blob) < 2 {
		return nil, fmt.Errorf("cp932: %d byte blob has no count: %w", len(blob), ErrMalformed)
	}
	count := int(binary.LittleEndian.Uint16(blob))
	if len(blob) < 2+2*count {
		return nil, fmt.Errorf("cp932: %d entries need %d bytes, have %d: %w", count, 2+2*count, len(blob), ErrMalformed)
	}
	if count > Capacity {
		return nil, fmt.Errorf("cp932: %d entries, sequence holds %d: %w", count, Capacity, ErrTooManyEntries)
	}

	var buf []byte
	if pool != nil {
		var err error
		if buf, err = pool.Allocate(2 * TableSize); err != nil {
			return nil, fmt.Errorf("cp932: table storage: %w", err)
		}
		clear(buf)
	} else {
		buf = make([]byte, 2*TableSize)
	}

	t := &Table{buf: buf}
	code := uint16(Start)
	for i := 0; i < count; i++ {
		u := binary.LittleEndian.Uint16(blob[2+2*i:])
		if u != 0 {
			if binary.LittleEndian.Uint16(buf[2*int(u):]) == 0 {
				t.mapped++
			}
			binary.LittleEndian.PutUint16(buf[2*int(u):], code)
		}
		code, _ = Next(code)
	}
	tracer().Debugf("cp932: %d entries, %d scalars mapped", count, t.mapped)
	return t, nil
}

// Lookup returns the CP932 code for r, or 0 if r is unmapped.
func (t *Table) Lookup(r rune) uint16 {
	if t == nil || r < 0 || r >= TableSize {
		return 0
	}
	return binary.LittleEndian.Uint16(t.buf[2*int(r):])
}

// Mapped is the number of scalars with a nonzero entry.
func (t *Table) Mapped() int { return t.mapped }

// Release returns the table storage to pool. The table must not be used
// afterwards.
func (t *Table) Release(pool mem.Pool) {
	if pool != nil {
		pool.Free(t.buf)
	}
	t.buf = nil
}
