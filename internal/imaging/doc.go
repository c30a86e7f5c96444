// Package imaging provides the in-memory image representation of the pipeline
// and its codec.
//
// Images are opaque RGB grids of 8-bit components. All transforms in this module
// consume an *Image and return a freshly allocated one; an *Image handed to a
// transform is never modified.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Pixels are stored row-major: index = y*width + x
//
// # Error Handling
//
// Functions return errors wrapping one of the package sentinels:
//   - ErrOutOfRange for coordinates outside the image
//   - ErrDegenerateGeometry for zero-area images
//   - ErrDecode for unreadable or unsupported source files
//   - ErrEncode for unsupported output extensions and write failures
//
// # Codec
//
// Codec decodes PNG, JPEG, GIF, BMP, TIFF and WebP sources and encodes PNG, JPEG,
// GIF, BMP and TIFF outputs. Alpha is dropped on decode; outputs are fully opaque.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. An *Image is not synchronized; distinct
// goroutines may write distinct pixels of the same image.
package imaging
