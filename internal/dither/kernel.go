package dither

import "fmt"

// Kernel is an error-diffusion weight matrix.
//
// The matrix is stored row-major with odd extents so that a center cell exists;
// the center is the pixel being quantized and always carries weight 0.
type Kernel struct {
	matrix []float32
	width  int
	height int
}

// NewKernel validates and copies a weight matrix.
func NewKernel(matrix []float32, width, height int) (*Kernel, error) {
	if width <= 0 || height <= 0 || width%2 == 0 || height%2 == 0 {
		return nil, fmt.Errorf("%w: extent %dx%d must be odd and positive", ErrInvalidKernel, width, height)
	}
	if len(matrix) != width*height {
		return nil, fmt.Errorf("%w: %d weights for a %dx%d kernel", ErrInvalidKernel, len(matrix), width, height)
	}
	if center := matrix[(height/2)*width+width/2]; center != 0 {
		return nil, fmt.Errorf("%w: center weight is %v, want 0", ErrInvalidKernel, center)
	}

	m := make([]float32, len(matrix))
	copy(m, matrix)
	return &Kernel{matrix: m, width: width, height: height}, nil
}

// FloydSteinberg returns the classic 3x3 Floyd-Steinberg kernel:
//
//	0     0     0
//	0     0     7/16
//	3/16  5/16  1/16
func FloydSteinberg() *Kernel {
	return &Kernel{
		matrix: []float32{
			0, 0, 0,
			0, 0, 7.0 / 16.0,
			3.0 / 16.0, 5.0 / 16.0, 1.0 / 16.0,
		},
		width:  3,
		height: 3,
	}
}

// Width returns the horizontal kernel extent.
func (k *Kernel) Width() int { return k.width }

// Height returns the vertical kernel extent.
func (k *Kernel) Height() int { return k.height }

// Weight returns the coefficient at kernel cell (kx, ky).
func (k *Kernel) Weight(kx, ky int) float32 {
	return k.matrix[ky*k.width+kx]
}
