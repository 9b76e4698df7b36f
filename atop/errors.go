package atop

import "errors"

var (
	// ErrUnsupported rejects a request the console cannot honor, such as a
	// mode whose cells are smaller than the font. State is left unchanged.
	ErrUnsupported = errors.New("atop: unsupported")

	// ErrDeviceError reports a missing or failing graphics device.
	ErrDeviceError = errors.New("atop: device error")

	// ErrUnknownGlyph is a warning: the string was written completely but at
	// least one character was drawn as the replacement glyph.
	ErrUnknownGlyph = errors.New("atop: unknown glyph")
)

// IsWarning reports whether err only signals that some output was degraded.
func IsWarning(err error) bool {
	return errors.Is(err, ErrUnknownGlyph)
}
