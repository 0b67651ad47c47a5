package compile

import (
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/script"
)

// SceneArtifact is a scene enriched with its resolved collaterals, ready
// for assembly. The visual source fields may be rewritten during the
// fallback retry; everything else is immutable.
type SceneArtifact struct {
	Scene             script.Scene
	NarrationPath     string
	NarrationDuration time.Duration
	AnimationPath     string
	FootageURL        string
	FootageID         string
	CaptionsEnabled   bool
	// VisualKind records the source that finally produced the segment.
	VisualKind string
}

// VideoSegment is a finished, fixed-duration, narration-muxed media unit
// for one scene. The file is pipeline-owned scratch; the timeline compiler
// reads it and the pipeline deletes it.
type VideoSegment struct {
	SceneIndex int
	Path       string
	Duration   time.Duration
}

// Effect is one of the fixed transition palette.
type Effect string

const (
	EffectCrossfade   Effect = "crossfade"
	EffectFadeToBlack Effect = "fade_to_black"
	EffectZoomIn      Effect = "zoom_in"
	EffectZoomOut     Effect = "zoom_out"
	EffectQuickFade   Effect = "quick_fade"
)

// TransitionDecision records the effect chosen for one adjacent scene pair.
type TransitionDecision struct {
	FromIndex int    `json:"from_scene"`
	ToIndex   int    `json:"to_scene"`
	Effect    Effect `json:"transition_type"`
	Rationale string `json:"reason"`
}

// Timeline is the final concatenated, transitioned, intro/outro-wrapped
// video. Exactly one per run; immutable once written.
type Timeline struct {
	Path      string
	Duration  time.Duration
	Decisions []TransitionDecision
}
