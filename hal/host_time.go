package hal

import "time"

// hostTime is the loader's millisecond timer. Every tick carries its
// sequence number, so a reader that drains late still knows how much time
// has passed. Ticks are dropped while nobody drains the channel.
type hostTime struct {
	ch   chan uint64
	ms   uint64
	last time.Time
	frac time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// sync advances the timer by the wall time since the previous call. The
// first call only starts the clock.
func (t *hostTime) sync(now time.Time) {
	if !t.last.IsZero() {
		t.advance(now.Sub(t.last))
	}
	t.last = now
}

// advance moves the timer d forward, one tick per whole millisecond.
func (t *hostTime) advance(d time.Duration) {
	if d <= 0 {
		return
	}
	d += t.frac
	t.frac = d % time.Millisecond
	for n := d / time.Millisecond; n > 0; n-- {
		t.ms++
		select {
		case t.ch <- t.ms:
		default:
		}
	}
}
