package compile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/PushpenderIndia/VideoAgent/internal/config"
	"github.com/PushpenderIndia/VideoAgent/internal/ffmpeg"
	"github.com/PushpenderIndia/VideoAgent/pkg/util"
	"github.com/rs/zerolog"
)

const (
	cardColor    = "0x141432"
	zoomInDelta  = 0.3
	zoomOutDelta = -0.3
)

// TimelineCompiler folds the ordered scene segments into one continuous
// video: transition effects at every junction, an intro card in front and
// an outro card at the end. Transition failures degrade to a crossfade and
// then to a hard cut; the compiler itself fails only when the final concat
// does.
type TimelineCompiler struct {
	logger    zerolog.Logger
	tk        Toolkit
	video     config.VideoConfig
	effectDur time.Duration
	workDir   string
}

func NewTimelineCompiler(logger zerolog.Logger, tk Toolkit, video config.VideoConfig, effectSec float64, workDir string) *TimelineCompiler {
	if effectSec <= 0 {
		effectSec = 1.0
	}
	return &TimelineCompiler{
		logger:    logger.With().Str("component", "timeline").Logger(),
		tk:        tk,
		video:     video,
		effectDur: time.Duration(effectSec * float64(time.Second)),
		workDir:   workDir,
	}
}

// piece is one playlist entry: a (possibly transformed) segment or an
// inserted interstitial.
type piece struct {
	path string
	dur  time.Duration
}

// Compile writes the final video to outputPath and reports its expected
// duration: segment durations plus cards plus any interstitials. Fades and
// zooms are applied in place over existing frames and add no time.
func (t *TimelineCompiler) Compile(ctx context.Context, segments []*VideoSegment, decisions []TransitionDecision, topic, outputPath string) (*Timeline, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segments to compile", ErrRenderFailure)
	}

	ps := make([]piece, len(segments))
	var segTotal time.Duration
	for i, seg := range segments {
		ps[i] = piece{path: seg.Path, dur: seg.Duration}
		segTotal += seg.Duration
	}

	var scratch []string
	defer func() { util.CleanupFiles(scratch...) }()

	inserts := make(map[int]piece)
	var interstitial time.Duration

	for j := 0; j < len(ps)-1; j++ {
		effect := EffectCrossfade
		if j < len(decisions) {
			effect = decisions[j].Effect
		}
		err := t.applyJunction(ctx, ps, j, effect, inserts, &interstitial, &scratch)
		if err != nil && effect != EffectCrossfade {
			t.logger.Warn().
				Err(err).
				Int("junction", j).
				Str("effect", string(effect)).
				Msg("transition failed, falling back to crossfade")
			err = t.applyJunction(ctx, ps, j, EffectCrossfade, inserts, &interstitial, &scratch)
		}
		if err != nil {
			// hard cut: both neighbours keep their current form
			t.logger.Warn().Err(err).Int("junction", j).Msg("crossfade failed, leaving hard cut")
		}
	}

	cardDur := time.Duration(t.video.CardSec * float64(time.Second))
	intro, outro, err := t.renderCards(ctx, topic, cardDur)
	if err != nil {
		return nil, err
	}
	scratch = append(scratch, intro, outro)

	playlist := []string{intro}
	for i, p := range ps {
		playlist = append(playlist, p.path)
		if ins, ok := inserts[i]; ok {
			playlist = append(playlist, ins.path)
		}
	}
	playlist = append(playlist, outro)

	t.logger.Info().
		Int("pieces", len(playlist)).
		Str("output", outputPath).
		Msg("compiling timeline")

	if err := t.tk.Concat(ctx, playlist, outputPath); err != nil {
		return nil, fmt.Errorf("%w: final concat: %v", ErrEncodeFailure, err)
	}

	// scene segments are folded in now; release them
	for _, seg := range segments {
		util.CleanupFiles(seg.Path)
	}

	total := segTotal + interstitial + 2*cardDur
	t.logger.Info().
		Dur("duration", total).
		Str("output", outputPath).
		Msg("timeline written")

	return &Timeline{Path: outputPath, Duration: total, Decisions: decisions}, nil
}

// applyJunction transforms ps[j] and ps[j+1] for one transition. Inserted
// interstitials land in inserts keyed by the left piece's index.
func (t *TimelineCompiler) applyJunction(ctx context.Context, ps []piece, j int, effect Effect, inserts map[int]piece, interstitial *time.Duration, scratch *[]string) error {
	left, right := &ps[j], &ps[j+1]

	switch effect {
	case EffectCrossfade:
		if err := t.fade(ctx, left, false, true, t.effectDur, j, "l", scratch); err != nil {
			return err
		}
		return t.fade(ctx, right, true, false, t.effectDur, j, "r", scratch)

	case EffectQuickFade:
		half := t.effectDur / 2
		if err := t.fade(ctx, left, false, true, half, j, "l", scratch); err != nil {
			return err
		}
		return t.fade(ctx, right, true, false, half, j, "r", scratch)

	case EffectFadeToBlack:
		half := t.effectDur / 2
		black := filepath.Join(t.workDir, fmt.Sprintf("junction_%02d_black.mp4", j))
		if err := t.tk.BlackClip(ctx, black, half); err != nil {
			return err
		}
		*scratch = append(*scratch, black)
		if err := t.fade(ctx, left, false, true, half, j, "l", scratch); err != nil {
			return err
		}
		if err := t.fade(ctx, right, true, false, half, j, "r", scratch); err != nil {
			return err
		}
		inserts[j] = piece{path: black, dur: half}
		*interstitial += half
		return nil

	case EffectZoomIn, EffectZoomOut:
		delta := zoomInDelta
		if effect == EffectZoomOut {
			delta = zoomOutDelta
		}
		out := filepath.Join(t.workDir, fmt.Sprintf("junction_%02d_zoom.mp4", j))
		if err := t.tk.ZoomTail(ctx, left.path, out, left.dur, delta, t.effectDur); err != nil {
			return err
		}
		*scratch = append(*scratch, out)
		left.path = out
		return t.fade(ctx, right, true, false, t.effectDur, j, "r", scratch)

	default:
		return fmt.Errorf("unknown effect %q", effect)
	}
}

func (t *TimelineCompiler) fade(ctx context.Context, p *piece, fadeIn, fadeOut bool, d time.Duration, j int, side string, scratch *[]string) error {
	out := filepath.Join(t.workDir, fmt.Sprintf("junction_%02d_%s.mp4", j, side))
	if err := t.tk.FadeEdges(ctx, p.path, out, p.dur, fadeIn, fadeOut, d); err != nil {
		return err
	}
	*scratch = append(*scratch, out)
	p.path = out
	return nil
}

func (t *TimelineCompiler) renderCards(ctx context.Context, topic string, cardDur time.Duration) (intro, outro string, err error) {
	introText := t.video.IntroText
	if introText == "" {
		introText = "Video: " + titleCase(topic)
	}
	outroText := t.video.OutroText

	intro = filepath.Join(t.workDir, "intro.mp4")
	if err := t.tk.Card(ctx, intro, ffmpeg.CardSpec{Text: introText, Color: cardColor, Duration: cardDur}); err != nil {
		return "", "", fmt.Errorf("%w: intro card: %v", ErrRenderFailure, err)
	}
	outro = filepath.Join(t.workDir, "outro.mp4")
	if err := t.tk.Card(ctx, outro, ffmpeg.CardSpec{Text: outroText, Color: cardColor, Duration: cardDur}); err != nil {
		return "", "", fmt.Errorf("%w: outro card: %v", ErrRenderFailure, err)
	}
	return intro, outro, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
