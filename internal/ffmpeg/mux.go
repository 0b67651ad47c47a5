package ffmpeg

import (
	"context"
	"fmt"
)

// Mux attaches a narration audio track to a silent video track. The video
// stream is copied untouched so the segment duration set by the reconciler
// survives exactly; -shortest guards against encoder padding on the tail.
func (e *Executor) Mux(ctx context.Context, video, audio, output string, settings EncodeSettings) error {
	if video == "" || audio == "" {
		return fmt.Errorf("video and audio paths are required")
	}
	s := settings.withDefaults()

	e.logger.Info().
		Str("video", video).
		Str("audio", audio).
		Str("output", output).
		Msg("muxing narration")

	args := []string{
		"-i", video,
		"-i", audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", s.AudioCodec,
		"-shortest",
		output,
	}

	if err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("mux")
		},
	}); err != nil {
		return fmt.Errorf("mux failed: %w", err)
	}
	return nil
}
