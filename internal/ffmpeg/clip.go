package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PushpenderIndia/VideoAgent/pkg/util"
)

// normalizeFilter scales into the target frame with letterboxing and pins
// the frame rate, so any two outputs can be concatenated.
func normalizeFilter(s EncodeSettings) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%g",
		s.Width, s.Height, s.Width, s.Height, s.FPS)
}

func (s EncodeSettings) encodeArgs() []string {
	return []string{
		"-c:v", s.VideoCodec,
		"-crf", fmt.Sprintf("%d", s.CRF),
		"-preset", s.Preset,
		"-pix_fmt", "yuv420p",
	}
}

// Trim re-encodes the first `target` of input into a normalized, silent
// video track. Narration audio is attached later by Mux.
func (e *Executor) Trim(ctx context.Context, input, output string, target time.Duration, settings EncodeSettings) error {
	s := settings.withDefaults()

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Dur("target", target).
		Msg("trimming clip")

	args := []string{
		"-i", input,
		"-t", util.FormatDuration(target),
		"-vf", normalizeFilter(s),
		"-an",
	}
	args = append(args, s.encodeArgs()...)
	args = append(args, output)

	return e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("trim")
		},
	})
}

// Loop concatenates `copies` repetitions of input and trims the result to
// exactly `target`.
func (e *Executor) Loop(ctx context.Context, input, output string, copies int, target time.Duration, settings EncodeSettings) error {
	if copies < 1 {
		return fmt.Errorf("invalid copy count %d", copies)
	}
	s := settings.withDefaults()

	e.logger.Info().
		Str("input", input).
		Int("copies", copies).
		Dur("target", target).
		Msg("loop-extending clip")

	inputs := make([]string, copies)
	for i := range inputs {
		inputs[i] = input
	}
	listFile, err := e.createConcatFile(inputs)
	if err != nil {
		return fmt.Errorf("failed to create concat file: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-t", util.FormatDuration(target),
		"-vf", normalizeFilter(s),
		"-an",
	}
	args = append(args, s.encodeArgs()...)
	args = append(args, output)

	return e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("loop")
		},
	})
}

// freezeSliceLen is the tail slice stretched over the gap when looping fails.
const freezeSliceLen = 100 * time.Millisecond

// FreezeExtend covers a duration gap by stretching the final slice of input
// into a frozen extension and concatenating it after the original.
func (e *Executor) FreezeExtend(ctx context.Context, input, output string, sourceDur, target time.Duration, settings EncodeSettings) error {
	if target <= sourceDur {
		return e.Trim(ctx, input, output, target, settings)
	}
	s := settings.withDefaults()
	gap := target - sourceDur

	e.logger.Warn().
		Str("input", input).
		Dur("gap", gap).
		Msg("freeze-extending clip")

	dir := filepath.Dir(output)
	base, err := os.CreateTemp(dir, "freeze-base-*.mp4")
	if err != nil {
		return err
	}
	base.Close()
	ext, err := os.CreateTemp(dir, "freeze-ext-*.mp4")
	if err != nil {
		return err
	}
	ext.Close()
	defer util.CleanupFiles(base.Name(), ext.Name())

	if err := e.Trim(ctx, input, base.Name(), sourceDur, s); err != nil {
		return err
	}

	sliceStart := sourceDur - freezeSliceLen
	if sliceStart < 0 {
		sliceStart = 0
	}
	factor := gap.Seconds() / freezeSliceLen.Seconds()

	args := []string{
		"-ss", util.FormatDuration(sliceStart),
		"-i", input,
		"-vf", fmt.Sprintf("%s,setpts=%.6f*PTS", normalizeFilter(s), factor),
		"-t", util.FormatDuration(gap),
		"-an",
	}
	args = append(args, s.encodeArgs()...)
	args = append(args, ext.Name())

	if err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("freeze extension")
		},
	}); err != nil {
		return fmt.Errorf("freeze extension failed: %w", err)
	}

	return e.Concat(ctx, ConcatOptions{
		Inputs:   []string{base.Name(), ext.Name()},
		Output:   output,
		ReEncode: true,
		Settings: s,
	})
}
