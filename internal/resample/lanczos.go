// Package resample resizes images with a windowed-sinc (Lanczos) filter.
//
// Every destination pixel (nx, ny) is mapped back to the source position
//
//	ox = nx * srcWidth / dstWidth
//	oy = ny * srcHeight / dstHeight
//
// with no half-pixel offset, so a scale factor of 1 reproduces the source
// exactly. Source pixels in the square window floor(o)-a+1 .. floor(o)+a-1
// contribute with weight lanczos(ox-ix) * lanczos(oy-iy). Window cells outside
// the source are skipped rather than clamped, which under-weights the edges.
package resample

import (
	"fmt"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pixel-pipeline/internal/imaging"
)

// DefaultLobes is the window radius used when none is given.
const DefaultLobes = 3

const epsilon = 1e-12

// Sinc is the normalized sinc function sin(πx)/(πx), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if math.Abs(x) < epsilon {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// Lanczos evaluates the Lanczos kernel with window radius a. It is zero
// outside the open interval (-a, a).
func Lanczos(x, a float64) float64 {
	if x <= -a || x >= a {
		return 0
	}
	return Sinc(x) * Sinc(x/a)
}

// Lanczos2D is the product of the kernel evaluated on both axes.
func Lanczos2D(x, y, a float64) float64 {
	return Lanczos(x, a) * Lanczos(y, a)
}

// Resampler resizes images with the Lanczos filter.
type Resampler struct {
	// Lobes is the window radius a. Values <= 0 mean DefaultLobes.
	Lobes int

	// Parallel computes destination rows concurrently. The output is identical
	// to a sequential run since destination pixels are independent.
	Parallel bool
}

// Resize returns a new width x height image resampled from img with a
// sequential Resampler of radius a.
func Resize(img *imaging.Image, width, height, a int) (*imaging.Image, error) {
	return Resampler{Lobes: a}.Resize(img, width, height)
}

// Resize returns a new width x height image resampled from img.
//
// # Errors
//
//   - ErrDegenerateGeometry if width or height is not positive
//   - ErrDegenerateGeometry if the filter weights of a destination pixel sum to 0
func (r Resampler) Resize(img *imaging.Image, width, height int) (*imaging.Image, error) {
	dst, err := imaging.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}

	lobes := r.Lobes
	if lobes <= 0 {
		lobes = DefaultLobes
	}

	rows := func(start, end int) error {
		for ny := start; ny < end; ny++ {
			if err := resampleRow(img, dst, ny, lobes); err != nil {
				return err
			}
		}
		return nil
	}

	if !r.Parallel {
		if err := rows(0, height); err != nil {
			return nil, err
		}
		return dst, nil
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.Line(height, func(start, end int) {
		if err := rows(start, end); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return dst, nil
}

// resampleRow fills destination row ny.
func resampleRow(src, dst *imaging.Image, ny, lobes int) error {
	srcW, srcH := float64(src.Width()), float64(src.Height())
	dstW, dstH := float64(dst.Width()), float64(dst.Height())
	oy := float64(ny) * srcH / dstH
	a := float64(lobes)

	for nx := 0; nx < dst.Width(); nx++ {
		ox := float64(nx) * srcW / dstW

		var sumR, sumG, sumB, sumWeights float64
		fx, fy := int(math.Floor(ox)), int(math.Floor(oy))
		for iy := fy - lobes + 1; iy < fy+lobes; iy++ {
			for ix := fx - lobes + 1; ix < fx+lobes; ix++ {
				if !src.In(ix, iy) {
					continue
				}
				c, err := src.Pixel(ix, iy)
				if err != nil {
					return err
				}
				w := Lanczos2D(ox-float64(ix), oy-float64(iy), a)
				sumWeights += w
				sumR += float64(c.R) * w
				sumG += float64(c.G) * w
				sumB += float64(c.B) * w
			}
		}

		if sumWeights == 0 {
			return fmt.Errorf("%w: zero filter weight at destination pixel (%d,%d)", imaging.ErrDegenerateGeometry, nx, ny)
		}

		if err := dst.SetPixel(nx, ny, imaging.Color{
			R: imaging.Quantize(sumR / sumWeights),
			G: imaging.Quantize(sumG / sumWeights),
			B: imaging.Quantize(sumB / sumWeights),
		}); err != nil {
			return err
		}
	}
	return nil
}
