package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func testExecutor(t *testing.T) *Executor {
	t.Helper()
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	e, err := New(logger, "", 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	return e
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	e := testExecutor(t)
	if e.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if e.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}
}

func TestProbeMissingFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	e := testExecutor(t)
	if _, err := e.Probe(context.Background(), "/nonexistent/video.mp4"); err == nil {
		t.Error("expected error probing missing file")
	}
}

func TestSynthAndTrimRoundTrip(t *testing.T) {
	skipIfNoFFmpeg(t)

	e := testExecutor(t)
	dir := t.TempDir()
	settings := EncodeSettings{Width: 320, Height: 240, FPS: 24}

	clip := filepath.Join(dir, "black.mp4")
	if err := e.BlackClip(context.Background(), clip, 2*time.Second, settings); err != nil {
		t.Fatalf("BlackClip: %v", err)
	}

	dur, err := e.ProbeDuration(context.Background(), clip)
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if dur < 1900*time.Millisecond || dur > 2100*time.Millisecond {
		t.Errorf("synthesized clip duration = %v, want ~2s", dur)
	}

	trimmed := filepath.Join(dir, "trimmed.mp4")
	if err := e.Trim(context.Background(), clip, trimmed, time.Second, settings); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	dur, err = e.ProbeDuration(context.Background(), trimmed)
	if err != nil {
		t.Fatalf("ProbeDuration after trim: %v", err)
	}
	if dur < 900*time.Millisecond || dur > 1100*time.Millisecond {
		t.Errorf("trimmed duration = %v, want ~1s", dur)
	}
}

func TestConcatDurations(t *testing.T) {
	skipIfNoFFmpeg(t)

	e := testExecutor(t)
	dir := t.TempDir()
	settings := EncodeSettings{Width: 320, Height: 240, FPS: 24}

	a := filepath.Join(dir, "a.mp4")
	b := filepath.Join(dir, "b.mp4")
	for _, clip := range []string{a, b} {
		if err := e.BlackClip(context.Background(), clip, time.Second, settings); err != nil {
			t.Fatalf("BlackClip: %v", err)
		}
	}

	out := filepath.Join(dir, "joined.mp4")
	err := e.Concat(context.Background(), ConcatOptions{
		Inputs:   []string{a, b},
		Output:   out,
		ReEncode: true,
		Settings: settings,
	})
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}

	dur, err := e.ProbeDuration(context.Background(), out)
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if dur < 1800*time.Millisecond || dur > 2300*time.Millisecond {
		t.Errorf("concat duration = %v, want ~2s", dur)
	}
}
