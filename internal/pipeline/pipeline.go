// Package pipeline parses a sequence of stage tokens and runs the stages in
// order against a single current image.
//
// Run starts with no image. Load replaces the current image, resize and
// dither transform it, and save writes it out and leaves no image, so a save
// must be followed by another load before any further transform. The first
// failing stage stops the run.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ironsheep/pixel-pipeline/internal/dither"
	"github.com/ironsheep/pixel-pipeline/internal/imaging"
	"github.com/ironsheep/pixel-pipeline/internal/resample"
)

// Codec reads and writes image files.
type Codec interface {
	Load(path string) (*imaging.Image, error)
	Save(img *imaging.Image, path string) error
}

// Options tunes how a Pipeline runs.
type Options struct {
	// Logger receives per-stage progress. Defaults to slog.Default().
	Logger *slog.Logger

	// ParallelResize computes resize rows concurrently.
	ParallelResize bool
}

// Pipeline is an ordered list of stages bound to a codec.
type Pipeline struct {
	stages  []Stage
	codec   Codec
	logger  *slog.Logger
	options Options
}

// New creates a pipeline running stages through codec.
func New(stages []Stage, codec Codec, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		stages:  append([]Stage(nil), stages...),
		codec:   codec,
		logger:  logger,
		options: opts,
	}
}

// FromArgs parses tokens and creates a pipeline from the result.
func FromArgs(tokens []string, codec Codec, opts Options) (*Pipeline, error) {
	stages, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	return New(stages, codec, opts), nil
}

// Stages returns a copy of the stage list.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Run executes the stages in order. The first failure is returned as a
// *StageError and no later stage runs.
func (p *Pipeline) Run() error {
	var current *imaging.Image

	for i, stage := range p.stages {
		logger := p.logger.With("stage", stage.Name(), "index", i+1)
		logger.Info("running stage", stageAttrs(stage)...)

		start := time.Now()
		next, err := p.execute(stage, current)
		if err != nil {
			return &StageError{Index: i, Stage: stage, Err: err}
		}
		current = next

		if current != nil {
			logger.Debug("stage complete", "elapsed", time.Since(start), "width", current.Width(), "height", current.Height())
		} else {
			logger.Debug("stage complete", "elapsed", time.Since(start))
		}
	}
	return nil
}

// execute runs one stage against the current image and returns the new one.
func (p *Pipeline) execute(stage Stage, current *imaging.Image) (*imaging.Image, error) {
	switch s := stage.(type) {
	case LoadStage:
		return p.codec.Load(s.Path)

	case ResizeStage:
		if current == nil {
			return nil, ErrMissingInput
		}
		r := resample.Resampler{Lobes: s.Lobes, Parallel: p.options.ParallelResize}
		return r.Resize(current, s.Width, s.Height)

	case DitherStage:
		if current == nil {
			return nil, ErrMissingInput
		}
		kernel := s.Kernel
		if kernel == nil {
			kernel = dither.FloydSteinberg()
		}
		palette := s.Palette
		if palette == nil {
			palette = dither.Palette16()
		}
		return dither.Dither(current, kernel, palette)

	case SaveStage:
		if current == nil {
			return nil, ErrMissingInput
		}
		if err := p.codec.Save(current, s.Path); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownStage, stage)
	}
}

func stageAttrs(stage Stage) []any {
	switch s := stage.(type) {
	case LoadStage:
		return []any{"path", s.Path}
	case ResizeStage:
		return []any{"width", s.Width, "height", s.Height, "lobes", s.Lobes}
	case DitherStage:
		return []any{"colors", len(s.Palette)}
	case SaveStage:
		return []any{"path", s.Path}
	}
	return nil
}
