package voice

import (
	"context"
	"time"
)

// Narration is a synthesized audio asset. Its duration is the authoritative
// timing anchor for the owning scene.
type Narration struct {
	Path     string
	Duration time.Duration
}

// Synthesizer turns narration text into a playable audio asset.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) (*Narration, error)
}

// DurationProber measures the duration of a written audio file; satisfied by
// the ffmpeg executor.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}
