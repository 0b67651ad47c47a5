package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/PushpenderIndia/VideoAgent/pkg/util"
)

// CardSpec describes a synthesized solid-color clip with optional text.
type CardSpec struct {
	Text     string
	Color    string // ffmpeg color spec, e.g. "0x0A0A1E"
	FontSize int
	Duration time.Duration
	Wrap     bool // render text as a wrapped block instead of one line
}

// Card synthesizes a solid background clip with centered text and a silent
// stereo audio track, so it concatenates cleanly with narrated segments.
// Used for intro/outro cards and the text-overlay placeholder.
func (e *Executor) Card(ctx context.Context, output string, spec CardSpec, settings EncodeSettings) error {
	s := settings.withDefaults()
	if spec.Color == "" {
		spec.Color = "black"
	}
	if spec.FontSize <= 0 {
		spec.FontSize = 60
	}

	e.logger.Info().
		Str("output", output).
		Dur("duration", spec.Duration).
		Msg("synthesizing card")

	fb := NewFilterBuilder()
	if spec.Text != "" {
		text := spec.Text
		if spec.Wrap && len(text) > 200 {
			text = text[:200] + "..."
		}
		fb.CenteredText(text, spec.FontSize)
	}

	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%g:d=%s",
			spec.Color, s.Width, s.Height, s.FPS, util.FormatSeconds(spec.Duration)),
		"-f", "lavfi",
		"-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
	}
	if vf := fb.Build(); vf != "" {
		args = append(args, "-vf", vf)
	}
	args = append(args, s.encodeArgs()...)
	args = append(args,
		"-c:a", s.AudioCodec,
		"-t", util.FormatDuration(spec.Duration),
		output,
	)

	if err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("card synth")
		},
	}); err != nil {
		return fmt.Errorf("card synthesis failed: %w", err)
	}
	return nil
}

// BlackClip synthesizes a silent black interstitial, used by the
// fade-to-black transition.
func (e *Executor) BlackClip(ctx context.Context, output string, d time.Duration, settings EncodeSettings) error {
	return e.Card(ctx, output, CardSpec{Color: "black", Duration: d}, settings)
}
