package pipeline

import (
	"fmt"

	"github.com/ironsheep/pixel-pipeline/internal/dither"
)

// Stage is one step of a pipeline. The set of stages is closed: LoadStage,
// ResizeStage, DitherStage and SaveStage are the only implementations.
type Stage interface {
	fmt.Stringer

	// Name is the stage token without its leading dashes.
	Name() string

	stage()
}

// LoadStage replaces the current image with the decoded file at Path.
type LoadStage struct {
	Path string
}

// ResizeStage resamples the current image to Width x Height with a Lanczos
// window of radius Lobes.
type ResizeStage struct {
	Width  int
	Height int
	Lobes  int
}

// DitherStage reduces the current image to Palette with error diffusion.
type DitherStage struct {
	Kernel  *dither.Kernel
	Palette dither.Palette
}

// SaveStage writes the current image to Path and leaves no image behind.
type SaveStage struct {
	Path string
}

func (LoadStage) stage()   {}
func (ResizeStage) stage() {}
func (DitherStage) stage() {}
func (SaveStage) stage()   {}

func (LoadStage) Name() string   { return "load" }
func (ResizeStage) Name() string { return "lanczos" }
func (DitherStage) Name() string { return "dither" }
func (SaveStage) Name() string   { return "save" }

// String renders the stage back into its command tokens.
func (s LoadStage) String() string { return fmt.Sprintf("--load %s", s.Path) }

func (s ResizeStage) String() string {
	return fmt.Sprintf("--lanczos %d %d", s.Width, s.Height)
}

func (DitherStage) String() string { return "--dither" }

func (s SaveStage) String() string { return fmt.Sprintf("--save %s", s.Path) }
