// Package dither reduces images to a fixed palette using error diffusion.
package dither

import (
	"errors"

	"github.com/ironsheep/pixel-pipeline/internal/imaging"
)

var (
	// ErrInvalidKernel is returned by NewKernel for malformed weight matrices.
	ErrInvalidKernel = errors.New("invalid dithering kernel")

	// ErrEmptyPalette is returned when quantizing against a palette with no entries.
	ErrEmptyPalette = errors.New("empty palette")
)

// Dither maps every pixel of img to the nearest palette color, diffusing the
// quantization error to neighbors according to kernel.
//
// Pixels are visited in row-major scan order. Each pixel is quantized from its
// current value, which already includes error diffused from earlier pixels.
// Diffusion targets outside the image are dropped. The input image is left
// untouched; the result is a new image of the same size whose pixels are all
// palette members.
func Dither(img *imaging.Image, kernel *Kernel, palette Palette) (*imaging.Image, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}

	work := img.Clone()
	centerX, centerY := kernel.width/2, kernel.height/2

	for cy := 0; cy < work.Height(); cy++ {
		for cx := 0; cx < work.Width(); cx++ {
			orig, err := work.Pixel(cx, cy)
			if err != nil {
				return nil, err
			}
			chosen, qe := palette.Nearest(orig)
			if err := work.SetPixel(cx, cy, chosen); err != nil {
				return nil, err
			}

			for ky := 0; ky < kernel.height; ky++ {
				for kx := 0; kx < kernel.width; kx++ {
					weight := kernel.Weight(kx, ky)
					if weight == 0 {
						continue
					}
					x, y := cx+kx-centerX, cy+ky-centerY
					if !work.In(x, y) {
						continue
					}
					if err := diffuse(work, x, y, qe, weight); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	return work, nil
}

// diffuse adds weight times the quantization error to the pixel at (x, y).
func diffuse(img *imaging.Image, x, y int, qe QuantizationError, weight float32) error {
	px, err := img.Pixel(x, y)
	if err != nil {
		return err
	}
	return img.SetPixel(x, y, imaging.Color{
		R: imaging.Quantize(float64(float32(px.R) + qe.R*weight)),
		G: imaging.Quantize(float64(float32(px.G) + qe.G*weight)),
		B: imaging.Quantize(float64(float32(px.B) + qe.B*weight)),
	})
}
