package compile

import (
	"context"
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/ffmpeg"
)

// Toolkit is the media-operation surface the compiler needs. The ffmpeg
// executor backs it in production; tests substitute a fake so assembly
// logic runs without a toolchain on PATH.
type Toolkit interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	Trim(ctx context.Context, input, output string, target time.Duration) error
	Loop(ctx context.Context, input, output string, copies int, target time.Duration) error
	FreezeExtend(ctx context.Context, input, output string, sourceDur, target time.Duration) error
	Render(ctx context.Context, input, output, videoFilter, audioFilter string) error
	Mux(ctx context.Context, video, audio, output string) error
	Concat(ctx context.Context, inputs []string, output string) error
	Card(ctx context.Context, output string, spec ffmpeg.CardSpec) error
	BlackClip(ctx context.Context, output string, d time.Duration) error
	FadeEdges(ctx context.Context, input, output string, clipDur time.Duration, fadeIn, fadeOut bool, d time.Duration) error
	ZoomTail(ctx context.Context, input, output string, clipDur time.Duration, delta float64, d time.Duration) error
}

type ffmpegToolkit struct {
	exec     *ffmpeg.Executor
	settings ffmpeg.EncodeSettings
}

// NewToolkit wraps the executor with fixed encode settings so every
// operation in a run shares one output format.
func NewToolkit(exec *ffmpeg.Executor, settings ffmpeg.EncodeSettings) Toolkit {
	return &ffmpegToolkit{exec: exec, settings: settings}
}

func (t *ffmpegToolkit) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	return t.exec.ProbeDuration(ctx, path)
}

func (t *ffmpegToolkit) Trim(ctx context.Context, input, output string, target time.Duration) error {
	return t.exec.Trim(ctx, input, output, target, t.settings)
}

func (t *ffmpegToolkit) Loop(ctx context.Context, input, output string, copies int, target time.Duration) error {
	return t.exec.Loop(ctx, input, output, copies, target, t.settings)
}

func (t *ffmpegToolkit) FreezeExtend(ctx context.Context, input, output string, sourceDur, target time.Duration) error {
	return t.exec.FreezeExtend(ctx, input, output, sourceDur, target, t.settings)
}

func (t *ffmpegToolkit) Render(ctx context.Context, input, output, videoFilter, audioFilter string) error {
	return t.exec.Render(ctx, input, output, videoFilter, audioFilter, t.settings)
}

func (t *ffmpegToolkit) Mux(ctx context.Context, video, audio, output string) error {
	return t.exec.Mux(ctx, video, audio, output, t.settings)
}

func (t *ffmpegToolkit) Concat(ctx context.Context, inputs []string, output string) error {
	return t.exec.Concat(ctx, ffmpeg.ConcatOptions{
		Inputs:   inputs,
		Output:   output,
		ReEncode: true,
		Settings: t.settings,
	})
}

func (t *ffmpegToolkit) Card(ctx context.Context, output string, spec ffmpeg.CardSpec) error {
	return t.exec.Card(ctx, output, spec, t.settings)
}

func (t *ffmpegToolkit) BlackClip(ctx context.Context, output string, d time.Duration) error {
	return t.exec.BlackClip(ctx, output, d, t.settings)
}

func (t *ffmpegToolkit) FadeEdges(ctx context.Context, input, output string, clipDur time.Duration, fadeIn, fadeOut bool, d time.Duration) error {
	return t.exec.FadeEdges(ctx, input, output, clipDur, fadeIn, fadeOut, d, t.settings)
}

func (t *ffmpegToolkit) ZoomTail(ctx context.Context, input, output string, clipDur time.Duration, delta float64, d time.Duration) error {
	return t.exec.ZoomTail(ctx, input, output, clipDur, delta, d, t.settings)
}
