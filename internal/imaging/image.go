package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Image is a width x height grid of Color values stored in row-major order.
//
// The pixel at (x, y) lives at index y*Width()+x of the underlying buffer.
// Dimensions are fixed at construction and the buffer always holds exactly
// Width()*Height() pixels.
//
// Pixel and SetPixel are bounds-checked and report ErrOutOfRange for any
// coordinate outside [0,width) x [0,height). Transform functions in this
// module never mutate their input; they work on a Clone and return it.
type Image struct {
	width  int
	height int
	data   []Color
}

// New allocates a black image of the given size.
//
// Zero or negative dimensions are rejected with ErrDegenerateGeometry.
func New(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrDegenerateGeometry, width, height)
	}
	return &Image{
		width:  width,
		height: height,
		data:   make([]Color, width*height),
	}, nil
}

// FromPixels builds an image from a row-major pixel slice. The slice is copied.
func FromPixels(width, height int, pixels []Color) (*Image, error) {
	img, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for a %dx%d image", ErrDegenerateGeometry, len(pixels), width, height)
	}
	copy(img.data, pixels)
	return img, nil
}

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.height }

// In reports whether (x, y) addresses a pixel of the image.
func (m *Image) In(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Pixel returns the color at (x, y).
func (m *Image) Pixel(x, y int) (Color, error) {
	if !m.In(x, y) {
		return Color{}, m.outOfRange(x, y)
	}
	return m.data[y*m.width+x], nil
}

// SetPixel overwrites the color at (x, y).
func (m *Image) SetPixel(x, y int, c Color) error {
	if !m.In(x, y) {
		return m.outOfRange(x, y)
	}
	m.data[y*m.width+x] = c
	return nil
}

func (m *Image) outOfRange(x, y int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d image", ErrOutOfRange, x, y, m.width, m.height)
}

// Pixels returns a copy of the row-major pixel buffer.
func (m *Image) Pixels() []Color {
	out := make([]Color, len(m.data))
	copy(out, m.data)
	return out
}

// Clone returns a deep copy that shares no storage with m.
func (m *Image) Clone() *Image {
	return &Image{
		width:  m.width,
		height: m.height,
		data:   m.Pixels(),
	}
}

// FromImage converts any decoded image into an opaque RGB Image.
//
// The source is normalized to non-premultiplied RGBA first, so the bounds
// origin does not matter; the alpha channel is discarded.
func FromImage(src image.Image) (*Image, error) {
	nrgba := imaging.Clone(src)
	bounds := nrgba.Bounds()
	img, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := 0; y < img.height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < img.width; x++ {
			p := row[x*4 : x*4+3]
			img.data[y*img.width+x] = Color{R: p[0], G: p[1], B: p[2]}
		}
	}
	return img, nil
}

// ToNRGBA converts the image into a standard library image for encoding.
func (m *Image) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for i, c := range m.data {
		dst.Pix[i*4+0] = c.R
		dst.Pix[i*4+1] = c.G
		dst.Pix[i*4+2] = c.B
		dst.Pix[i*4+3] = 0xff
	}
	return dst
}
