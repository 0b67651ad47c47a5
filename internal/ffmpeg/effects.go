package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PushpenderIndia/VideoAgent/pkg/util"
)

// FadeEdges applies video+audio fades in-place over existing frames; no
// frames are added or removed, so the clip duration is unchanged.
func (e *Executor) FadeEdges(ctx context.Context, input, output string, clipDur time.Duration, fadeIn, fadeOut bool, d time.Duration, settings EncodeSettings) error {
	if !fadeIn && !fadeOut {
		return fmt.Errorf("no fade requested")
	}
	if d > clipDur {
		d = clipDur
	}

	fb := NewFilterBuilder()
	var af string
	if fadeIn {
		fb.FadeIn(d)
		af = fmt.Sprintf("afade=t=in:st=0:d=%s", util.FormatSeconds(d))
	}
	if fadeOut {
		start := clipDur - d
		fb.FadeOut(start, d)
		out := fmt.Sprintf("afade=t=out:st=%s:d=%s", util.FormatSeconds(start), util.FormatSeconds(d))
		if af != "" {
			af += "," + out
		} else {
			af = out
		}
	}

	return e.Render(ctx, input, output, fb.Build(), af, settings)
}

// ZoomTail applies a continuous scale ramp over the final `d` of the clip:
// the head is kept untouched, the tail is zoomed, and both are rejoined.
func (e *Executor) ZoomTail(ctx context.Context, input, output string, clipDur time.Duration, delta float64, d time.Duration, settings EncodeSettings) error {
	s := settings.withDefaults()
	if d > clipDur {
		d = clipDur
	}
	headDur := clipDur - d

	e.logger.Info().
		Str("input", input).
		Float64("delta", delta).
		Dur("ramp", d).
		Msg("applying zoom ramp")

	dir := filepath.Dir(output)
	tail, err := os.CreateTemp(dir, "zoom-tail-*.mp4")
	if err != nil {
		return err
	}
	tail.Close()
	defer util.CleanupFiles(tail.Name())

	zoomFB := NewFilterBuilder().ZoomRamp(delta, d, s.FPS, s.Width, s.Height)

	if headDur <= 0 {
		return e.Render(ctx, input, output, zoomFB.Build(), "", s)
	}

	head, err := os.CreateTemp(dir, "zoom-head-*.mp4")
	if err != nil {
		return err
	}
	head.Close()
	defer util.CleanupFiles(head.Name())

	// head: straight copy of [0, headDur)
	headArgs := []string{
		"-i", input,
		"-t", util.FormatDuration(headDur),
	}
	headArgs = append(headArgs, s.encodeArgs()...)
	headArgs = append(headArgs, "-c:a", s.AudioCodec, head.Name())
	if err := e.Run(ctx, RunOptions{Args: headArgs}); err != nil {
		return fmt.Errorf("zoom head cut failed: %w", err)
	}

	// tail: zoom ramp over [headDur, clipDur)
	tailArgs := []string{
		"-ss", util.FormatDuration(headDur),
		"-i", input,
		"-vf", zoomFB.Build(),
	}
	tailArgs = append(tailArgs, s.encodeArgs()...)
	tailArgs = append(tailArgs, "-c:a", s.AudioCodec, tail.Name())
	if err := e.Run(ctx, RunOptions{Args: tailArgs}); err != nil {
		return fmt.Errorf("zoom tail render failed: %w", err)
	}

	return e.Concat(ctx, ConcatOptions{
		Inputs:   []string{head.Name(), tail.Name()},
		Output:   output,
		ReEncode: true,
		Settings: s,
	})
}
