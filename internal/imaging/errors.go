package imaging

import "errors"

// Error kinds reported by this package. Callers match them with errors.Is; the
// returned errors wrap them with the coordinate, path or dimension involved.
var (
	// ErrOutOfRange is returned when a pixel coordinate lies outside the image.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrDegenerateGeometry is returned for zero-area images and for resampling
	// windows whose weights sum to zero.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrDecode is returned when a source image is malformed or unsupported.
	ErrDecode = errors.New("decode failed")

	// ErrEncode is returned when an image cannot be encoded or written.
	ErrEncode = errors.New("encode failed")
)
