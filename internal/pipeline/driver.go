package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PushpenderIndia/VideoAgent/internal/animate"
	"github.com/PushpenderIndia/VideoAgent/internal/compile"
	"github.com/PushpenderIndia/VideoAgent/internal/config"
	"github.com/PushpenderIndia/VideoAgent/internal/script"
	"github.com/PushpenderIndia/VideoAgent/internal/stock"
	"github.com/PushpenderIndia/VideoAgent/internal/voice"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Purger releases downloaded-asset caches at the end of a run; satisfied
// by assets.Acquirer.
type Purger interface {
	Purge()
}

// SceneReport is the per-scene provenance line in the run metadata.
type SceneReport struct {
	Index        int     `json:"index"`
	Title        string  `json:"title"`
	VisualSource string  `json:"visual_source"`
	NarrationSec float64 `json:"narration_sec"`
}

// Result is the structured outcome of a run. On failure, Stage and
// SceneIndex identify where the pipeline stopped.
type Result struct {
	Success       bool                         `json:"success"`
	Topic         string                       `json:"topic"`
	RunID         string                       `json:"run_id"`
	Stage         string                       `json:"stage,omitempty"`
	SceneIndex    int                          `json:"scene_index"`
	Message       string                       `json:"message,omitempty"`
	ErrorDetail   string                       `json:"error,omitempty"`
	FinalVideo    string                       `json:"final_video,omitempty"`
	TotalDuration float64                      `json:"total_duration_sec"`
	SceneCount    int                          `json:"scene_count"`
	Scenes        []SceneReport                `json:"scenes,omitempty"`
	Transitions   []compile.TransitionDecision `json:"transitions,omitempty"`
}

// Driver sequences one full run: script, per-scene narration and visual
// resolution, scene assembly, transition selection and the final timeline.
// Scenes are processed strictly in order; the first hard failure stops the
// run.
type Driver struct {
	logger    zerolog.Logger
	cfg       *config.Config
	scripter  script.Generator
	voice     voice.Synthesizer
	footage   stock.Provider    // optional
	animator  animate.Generator // optional
	purger    Purger            // optional
	assembler *compile.Assembler
	selector  *compile.Selector
	timeline  *compile.TimelineCompiler
}

// New wires a driver from its collaborators. footage, animator and purger
// may be nil.
func New(logger zerolog.Logger, cfg *config.Config, scripter script.Generator, synth voice.Synthesizer, footage stock.Provider, animator animate.Generator, purger Purger, assembler *compile.Assembler, selector *compile.Selector, timeline *compile.TimelineCompiler) *Driver {
	return &Driver{
		logger:    logger.With().Str("component", "pipeline").Logger(),
		cfg:       cfg,
		scripter:  scripter,
		voice:     synth,
		footage:   footage,
		animator:  animator,
		purger:    purger,
		assembler: assembler,
		selector:  selector,
		timeline:  timeline,
	}
}

// Run generates a script for the topic and compiles it to outputPath.
func (d *Driver) Run(ctx context.Context, topic, outputPath string) (*Result, error) {
	scr, err := d.scripter.GenerateScript(ctx, topic)
	if err != nil {
		res := d.failure(topic, "", "script", -1, err)
		return res, err
	}
	return d.RunScript(ctx, scr, outputPath)
}

// RunScript compiles an already generated script to outputPath.
func (d *Driver) RunScript(ctx context.Context, scr *script.Script, outputPath string) (*Result, error) {
	runID := uuid.New().String()
	logger := d.logger.With().Str("run_id", runID).Logger()

	if len(scr.Scenes) == 0 {
		err := fmt.Errorf("script has no scenes")
		return d.failure(scr.Topic, runID, "script", -1, err), err
	}

	logger.Info().
		Str("topic", scr.Topic).
		Int("scenes", len(scr.Scenes)).
		Msg("starting run")

	audioDir := filepath.Join(d.cfg.TempDir, "audio")
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return d.failure(scr.Topic, runID, "setup", -1, err), err
	}

	d.assembler.ResetRun()
	if d.purger != nil {
		defer d.purger.Purge()
	}

	segments := make([]*compile.VideoSegment, 0, len(scr.Scenes))
	reports := make([]SceneReport, 0, len(scr.Scenes))

	for _, scene := range scr.Scenes {
		art, err := d.prepareScene(ctx, logger, scene, audioDir)
		if err != nil {
			return d.failure(scr.Topic, runID, "narration", scene.Index, err), err
		}

		seg, err := d.assembler.Assemble(ctx, art)
		if err != nil {
			stage := "assembly"
			idx := scene.Index
			var se *compile.StageError
			if errors.As(err, &se) {
				stage = string(se.Stage)
				idx = se.SceneIndex
			}
			return d.failure(scr.Topic, runID, stage, idx, err), err
		}

		segments = append(segments, seg)
		reports = append(reports, SceneReport{
			Index:        scene.Index,
			Title:        scene.Title,
			VisualSource: art.VisualKind,
			NarrationSec: art.NarrationDuration.Seconds(),
		})
	}

	decisions := make([]compile.TransitionDecision, 0, len(scr.Scenes)-1)
	for i := 0; i < len(scr.Scenes)-1; i++ {
		decisions = append(decisions, d.selector.Select(scr.Scenes[i], scr.Scenes[i+1], i))
	}

	tl, err := d.timeline.Compile(ctx, segments, decisions, scr.Topic, outputPath)
	if err != nil {
		return d.failure(scr.Topic, runID, "timeline", -1, err), err
	}

	res := &Result{
		Success:       true,
		Topic:         scr.Topic,
		RunID:         runID,
		SceneIndex:    -1,
		FinalVideo:    tl.Path,
		TotalDuration: tl.Duration.Seconds(),
		SceneCount:    len(scr.Scenes),
		Scenes:        reports,
		Transitions:   tl.Decisions,
		Message:       fmt.Sprintf("compiled %d scenes into %s", len(scr.Scenes), tl.Path),
	}

	if path, err := WriteRunState(d.cfg.OutputDir, res); err != nil {
		logger.Warn().Err(err).Msg("failed to write run metadata")
	} else {
		logger.Info().Str("path", path).Msg("run metadata written")
	}

	logger.Info().
		Str("output", tl.Path).
		Float64("duration_sec", res.TotalDuration).
		Msg("run finished")
	return res, nil
}

// prepareScene synthesizes narration and resolves the initial visual
// source for one scene. Narration failure is fatal; visual lookups are
// best-effort here because the assembler has its own fallback chain.
func (d *Driver) prepareScene(ctx context.Context, logger zerolog.Logger, scene script.Scene, audioDir string) (*compile.SceneArtifact, error) {
	dialogue := scene.Dialogue()
	if dialogue == "" {
		return nil, fmt.Errorf("%w: scene %d has no dialogue", compile.ErrMissingAudio, scene.Index)
	}

	audioPath := filepath.Join(audioDir, fmt.Sprintf("narration_%02d.mp3", scene.Index))
	narration, err := d.voice.Synthesize(ctx, dialogue, audioPath)
	if err != nil {
		return nil, fmt.Errorf("narration synthesis: %w", err)
	}

	art := &compile.SceneArtifact{
		Scene:             scene,
		NarrationPath:     narration.Path,
		NarrationDuration: narration.Duration,
		CaptionsEnabled:   d.cfg.Captions.Enabled,
	}

	if d.animator != nil {
		if anim, err := d.animator.GenerateAnimation(ctx, dialogue); err != nil {
			logger.Warn().Err(err).Int("scene", scene.Index).Msg("animation generation failed")
		} else if anim != nil {
			art.AnimationPath = anim.Path
			return art, nil
		}
	}

	if d.footage != nil {
		if f, err := d.footage.FindFootage(ctx, scene.Index, scene.Title, dialogue, d.assembler.UsedFootage()); err != nil {
			logger.Warn().Err(err).Int("scene", scene.Index).Msg("footage lookup failed")
		} else if f != nil {
			art.FootageURL = f.URL
			art.FootageID = f.ID
		}
	}

	return art, nil
}

func (d *Driver) failure(topic, runID, stage string, sceneIndex int, err error) *Result {
	d.logger.Error().
		Err(err).
		Str("stage", stage).
		Int("scene", sceneIndex).
		Msg("run failed")
	return &Result{
		Success:     false,
		Topic:       topic,
		RunID:       runID,
		Stage:       stage,
		SceneIndex:  sceneIndex,
		ErrorDetail: err.Error(),
		Message:     fmt.Sprintf("pipeline failed at %s", stage),
	}
}
