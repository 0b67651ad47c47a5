package compile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/assets"
	"github.com/PushpenderIndia/VideoAgent/internal/ffmpeg"
	"github.com/PushpenderIndia/VideoAgent/internal/stock"
	"github.com/PushpenderIndia/VideoAgent/pkg/util"
	"github.com/rs/zerolog"
)

// VisualResolver turns a scene's visual sources into a local validated
// asset; satisfied by assets.Acquirer.
type VisualResolver interface {
	Resolve(ctx context.Context, req assets.Request) (*assets.VisualAsset, error)
}

// maxVisualAttempts bounds the visual resolution retry: the original
// source, then at most one alternate from the footage provider.
const maxVisualAttempts = 2

// muxTolerance is the allowed drift between a muxed segment and its
// narration; encoder frame alignment can shift the tail by a frame or two.
const muxTolerance = 250 * time.Millisecond

const placeholderColor = "0x003264"

// Assembler walks one scene through visual resolution, duration fitting,
// captioning and narration mux, producing a finished segment. Visual
// failures degrade through footage retry and placeholder synthesis; only
// missing narration and encode failures abort the scene.
type Assembler struct {
	logger     zerolog.Logger
	tk         Toolkit
	resolver   VisualResolver
	footage    stock.Provider
	reconciler *Reconciler
	captions   *Compositor
	workDir    string
	used       map[string]bool
}

// NewAssembler creates an assembler writing scratch files under workDir.
// footage may be nil when no remote provider is configured.
func NewAssembler(logger zerolog.Logger, tk Toolkit, resolver VisualResolver, footage stock.Provider, reconciler *Reconciler, captions *Compositor, workDir string) *Assembler {
	return &Assembler{
		logger:     logger.With().Str("component", "assembler").Logger(),
		tk:         tk,
		resolver:   resolver,
		footage:    footage,
		reconciler: reconciler,
		captions:   captions,
		workDir:    workDir,
		used:       make(map[string]bool),
	}
}

// ResetRun clears the consumed-footage set; called once per pipeline run.
func (a *Assembler) ResetRun() {
	a.used = make(map[string]bool)
}

// MarkFootageUsed records a remote asset identifier as consumed, so later
// scenes in the same run cannot pick it again.
func (a *Assembler) MarkFootageUsed(id string) {
	if id != "" {
		a.used[id] = true
	}
}

// UsedFootage exposes the consumed set for provider exclusion lookups.
func (a *Assembler) UsedFootage() map[string]bool {
	return a.used
}

// Assemble produces the finished segment for one scene. The returned
// segment's duration equals the narration duration exactly.
func (a *Assembler) Assemble(ctx context.Context, art *SceneArtifact) (*VideoSegment, error) {
	idx := art.Scene.Index
	target := art.NarrationDuration

	if art.NarrationPath == "" || !util.FileExists(art.NarrationPath) {
		return nil, stageErr(StagePending, idx, ErrMissingAudio)
	}
	if target <= 0 {
		return nil, stageErr(StagePending, idx, fmt.Errorf("%w: zero narration duration", ErrMissingAudio))
	}

	visual, err := a.resolveVisual(ctx, art, target)
	if err != nil {
		return nil, stageErr(StageVisualResolved, idx, err)
	}

	segPath := visual.Path
	if visual.Kind != assets.KindPlaceholder {
		fitted := filepath.Join(a.workDir, fmt.Sprintf("fitted_%02d.mp4", idx))
		if err := a.reconciler.Fit(ctx, visual.Path, visual.Duration, target, fitted); err != nil {
			return nil, stageErr(StageDurationFit, idx, err)
		}
		segPath = fitted
	}

	if art.CaptionsEnabled && a.captions != nil {
		captioned := filepath.Join(a.workDir, fmt.Sprintf("captioned_%02d.mp4", idx))
		next, err := a.captions.Overlay(ctx, segPath, captioned, art.Scene.Content, target)
		if err != nil {
			return nil, stageErr(StageCaptioned, idx, err)
		}
		segPath = next
	}

	output := filepath.Join(a.workDir, fmt.Sprintf("scene_%02d.mp4", idx))
	if err := a.tk.Mux(ctx, segPath, art.NarrationPath, output); err != nil {
		return nil, stageErr(StageMuxed, idx, fmt.Errorf("%w: %v", ErrEncodeFailure, err))
	}

	dur, err := a.tk.ProbeDuration(ctx, output)
	if err != nil {
		return nil, stageErr(StageWritten, idx, fmt.Errorf("%w: finished segment unreadable: %v", ErrEncodeFailure, err))
	}
	if drift := dur - target; drift < -muxTolerance || drift > muxTolerance {
		a.logger.Warn().
			Int("scene", idx).
			Dur("target", target).
			Dur("actual", dur).
			Msg("muxed segment drifted from narration duration")
	}

	// scene-level scratch is released here; the final segment file survives
	// until the timeline folds it in
	a.cleanupScratch(idx, output)

	a.logger.Info().
		Int("scene", idx).
		Str("visual", art.VisualKind).
		Dur("duration", target).
		Str("output", output).
		Msg("scene assembled")

	return &VideoSegment{SceneIndex: idx, Path: output, Duration: target}, nil
}

// resolveVisual runs the fallback chain: configured source, one alternate
// footage attempt, then a synthesized placeholder card. Only placeholder
// synthesis failure propagates.
func (a *Assembler) resolveVisual(ctx context.Context, art *SceneArtifact, target time.Duration) (*assets.VisualAsset, error) {
	idx := art.Scene.Index

	for attempt := 1; attempt <= maxVisualAttempts; attempt++ {
		req := assets.Request{
			SceneIndex:    idx,
			AnimationPath: art.AnimationPath,
			FootageURL:    art.FootageURL,
		}
		visual, err := a.resolver.Resolve(ctx, req)
		if err == nil {
			if visual.Kind == assets.KindFootage {
				a.MarkFootageUsed(art.FootageID)
			}
			art.VisualKind = string(visual.Kind)
			return visual, nil
		}

		a.logger.Warn().
			Err(err).
			Int("scene", idx).
			Int("attempt", attempt).
			Msg("visual resolution failed")

		if attempt == maxVisualAttempts || a.footage == nil {
			break
		}
		alt, ferr := a.footage.FindFootage(ctx, idx, art.Scene.Title, art.Scene.Dialogue(), a.used)
		if ferr != nil || alt == nil {
			a.logger.Warn().Err(ferr).Int("scene", idx).Msg("no alternate footage available")
			break
		}
		art.AnimationPath = ""
		art.FootageURL = alt.URL
		art.FootageID = alt.ID
	}

	text := art.Scene.Dialogue()
	if text == "" {
		text = art.Scene.Title
	}
	path := filepath.Join(a.workDir, fmt.Sprintf("placeholder_%02d.mp4", idx))
	spec := ffmpeg.CardSpec{
		Text:     text,
		Color:    placeholderColor,
		FontSize: 40,
		Duration: target,
		Wrap:     true,
	}
	if err := a.tk.Card(ctx, path, spec); err != nil {
		return nil, fmt.Errorf("%w: placeholder synthesis: %v", ErrRenderFailure, err)
	}

	a.logger.Info().Int("scene", idx).Msg("using placeholder visual")
	art.VisualKind = string(assets.KindPlaceholder)
	return &assets.VisualAsset{Path: path, Duration: target, Kind: assets.KindPlaceholder}, nil
}

func (a *Assembler) cleanupScratch(idx int, keep string) {
	for _, name := range []string{
		fmt.Sprintf("fitted_%02d.mp4", idx),
		fmt.Sprintf("captioned_%02d.mp4", idx),
		fmt.Sprintf("placeholder_%02d.mp4", idx),
	} {
		path := filepath.Join(a.workDir, name)
		if path != keep {
			util.CleanupFiles(path)
		}
	}
}
