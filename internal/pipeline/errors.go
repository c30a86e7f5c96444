package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds reported while building and running a pipeline.
var (
	// ErrUnknownStage is returned for a token that does not start a stage.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrMissingArgument is returned when a stage token lacks a required argument.
	ErrMissingArgument = errors.New("missing argument")

	// ErrParse is returned when a numeric argument is not a non-negative integer.
	ErrParse = errors.New("invalid argument")

	// ErrMissingInput is returned when a stage needs an image and none is available.
	ErrMissingInput = errors.New("missing input image")
)

// StageError reports the failure of one stage during Run.
type StageError struct {
	// Index is the 0-based position of the stage in the pipeline.
	Index int

	// Stage is the failing stage.
	Stage Stage

	// Err is the underlying error.
	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Index+1, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
