package compile

import (
	"errors"
	"fmt"
)

// Assembly failure kinds that surface past the scene assembler. Visual
// acquisition failures never get this far; they are absorbed by the
// fallback chain.
var (
	ErrMissingAudio  = errors.New("narration audio missing")
	ErrRenderFailure = errors.New("render operation failed")
	ErrEncodeFailure = errors.New("encode operation failed")
)

// Stage names a step of the per-scene state machine.
type Stage string

const (
	StagePending        Stage = "PENDING"
	StageVisualResolved Stage = "VISUAL_RESOLVED"
	StageDurationFit    Stage = "DURATION_FIT"
	StageCaptioned      Stage = "CAPTIONED"
	StageMuxed          Stage = "MUXED"
	StageWritten        Stage = "WRITTEN"
)

// StageError tags a failure with the stage and scene where it happened.
type StageError struct {
	Stage      Stage
	SceneIndex int
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("scene %d failed at %s: %v", e.SceneIndex, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, sceneIndex int, err error) *StageError {
	return &StageError{Stage: stage, SceneIndex: sceneIndex, Err: err}
}
