package ffmpeg

import (
	"context"
	"fmt"
)

// Render re-encodes input applying optional video and audio filter chains.
// It is the workhorse behind captions and transition fades.
func (e *Executor) Render(ctx context.Context, input, output, videoFilter, audioFilter string, settings EncodeSettings) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if output == "" {
		return fmt.Errorf("output path is required")
	}
	s := settings.withDefaults()

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Msg("rendering")

	args := []string{"-i", input}

	if videoFilter != "" {
		args = append(args, "-vf", videoFilter)
	}
	args = append(args, s.encodeArgs()...)

	if audioFilter != "" {
		args = append(args, "-af", audioFilter, "-c:a", s.AudioCodec)
	} else {
		args = append(args, "-c:a", "copy")
	}

	args = append(args, output)

	if err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("render")
		},
	}); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	e.logger.Info().Str("output", output).Msg("render completed")
	return nil
}
