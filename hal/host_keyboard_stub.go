//go:build !cgo

package hal

// hostKeyboard without cgo has no window to take keys from. Its channel
// stays empty, so a boot countdown runs out on its own.
type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) poll() {}
