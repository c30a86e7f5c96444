package dither

import (
	"fmt"
	"math"

	"github.com/ironsheep/pixel-pipeline/internal/imaging"
)

// Palette is an ordered set of allowed output colors. Order matters: when two
// entries are equally close to a color, the earlier one wins.
type Palette []imaging.Color

// palette16Hex is the 16 color palette from https://www.androidarts.com/palette/16pal.htm
var palette16Hex = [...]string{
	"#000000", "#9D9D9D", "#FFFFFF", "#BE2633",
	"#E06F8B", "#493C2B", "#A46422", "#EB8931",
	"#F7E26B", "#2F484E", "#44891A", "#A3CE27",
	"#1B2632", "#005784", "#31A2F2", "#B2DCEF",
}

// Palette16 returns the default 16 color palette. Each call returns a fresh
// slice, so callers cannot alter the palette seen by others.
func Palette16() Palette {
	return MustParsePalette(palette16Hex[:]...)
}

// ParsePalette builds a palette from "#rrggbb" or "#rgb" strings.
func ParsePalette(hexes ...string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, ErrEmptyPalette
	}
	p := make(Palette, 0, len(hexes))
	for i, h := range hexes {
		c, err := imaging.ParseHex(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// MustParsePalette is like ParsePalette but panics on error. It is meant for
// palette literals.
func MustParsePalette(hexes ...string) Palette {
	p, err := ParsePalette(hexes...)
	if err != nil {
		panic(err)
	}
	return p
}

// Contains reports whether c is one of the palette entries.
func (p Palette) Contains(c imaging.Color) bool {
	for _, entry := range p {
		if entry == c {
			return true
		}
	}
	return false
}

// QuantizationError is the per-channel residual original - chosen.
type QuantizationError struct {
	R, G, B float32
}

// Nearest returns the palette entry closest to c in squared RGB distance,
// together with the quantization error. Ties go to the earliest entry.
//
// The palette must not be empty.
func (p Palette) Nearest(c imaging.Color) (imaging.Color, QuantizationError) {
	best := p[0]
	bestDist := float32(math.Inf(1))

	for _, candidate := range p {
		dr := float32(c.R) - float32(candidate.R)
		dg := float32(c.G) - float32(candidate.G)
		db := float32(c.B) - float32(candidate.B)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}

	return best, QuantizationError{
		R: float32(c.R) - float32(best.R),
		G: float32(c.G) - float32(best.G),
		B: float32(c.B) - float32(best.B),
	}
}
