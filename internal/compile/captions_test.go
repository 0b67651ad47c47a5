package compile

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/config"
)

func testCaptionConfig() config.CaptionConfig {
	return config.CaptionConfig{
		Enabled:      true,
		WidthRatio:   0.7,
		BoxHeight:    80,
		BottomMargin: 0.1,
		FontSize:     32,
		FadeSec:      0.5,
	}
}

func TestCaptionWindowsPartition(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		total time.Duration
	}{
		{"even split", 4, 8 * time.Second},
		{"non-divisible remainder", 3, time.Second},
		{"single line", 1, 5 * time.Second},
		{"many lines short clip", 7, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]string, tt.lines)
			for i := range lines {
				lines[i] = "line"
			}
			windows := CaptionWindows(lines, tt.total)
			if len(windows) != tt.lines {
				t.Fatalf("got %d windows, want %d", len(windows), tt.lines)
			}
			if windows[0].Start != 0 {
				t.Errorf("first window starts at %v, want 0", windows[0].Start)
			}
			if end := windows[len(windows)-1].End; end != tt.total {
				t.Errorf("last window ends at %v, want %v", end, tt.total)
			}
			for i := 1; i < len(windows); i++ {
				if windows[i].Start != windows[i-1].End {
					t.Errorf("gap between window %d and %d: %v != %v",
						i-1, i, windows[i-1].End, windows[i].Start)
				}
			}
		})
	}
}

func TestCaptionWindowsEmpty(t *testing.T) {
	if w := CaptionWindows(nil, 5*time.Second); w != nil {
		t.Errorf("expected nil windows for no lines, got %v", w)
	}
	if w := CaptionWindows([]string{"a"}, 0); w != nil {
		t.Errorf("expected nil windows for zero duration, got %v", w)
	}
}

func TestOverlayBuildsPerLineFilters(t *testing.T) {
	tk := newFakeToolkit()
	c := NewCompositor(testLogger(), tk, testCaptionConfig(), 1920, 1080)
	out := filepath.Join(t.TempDir(), "captioned.mp4")

	path, err := c.Overlay(context.Background(), "in.mp4", out, []string{"first line", "second line"}, 6*time.Second)
	if err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	if path != out {
		t.Errorf("returned path = %q, want %q", path, out)
	}

	if len(tk.renderFilters) != 1 {
		t.Fatalf("expected one render, got %d", len(tk.renderFilters))
	}
	filter := tk.renderFilters[0]
	if got := strings.Count(filter, "drawtext"); got != 2 {
		t.Errorf("drawtext count = %d, want 2", got)
	}
	// both box layers ramp in steps alongside the text fade
	for _, part := range []string{"color=black@0.25", "color=black@1.00", "color=0x1E1E1E@0.30"} {
		if !strings.Contains(filter, part) {
			t.Errorf("filter missing box fade level %q: %s", part, filter)
		}
	}
	// 10% bottom margin below a 80px box on a 1080p frame
	if !strings.Contains(filter, "y=892") {
		t.Errorf("filter missing expected box y position: %s", filter)
	}
	if !strings.Contains(filter, "w=1344") {
		t.Errorf("filter missing expected 70%% box width: %s", filter)
	}
}

func TestOverlayDropsFailingLine(t *testing.T) {
	tk := newFakeToolkit()
	tk.failRenderMatch = "broken glyph"
	c := NewCompositor(testLogger(), tk, testCaptionConfig(), 1920, 1080)
	out := filepath.Join(t.TempDir(), "captioned.mp4")

	path, err := c.Overlay(context.Background(), "in.mp4", out,
		[]string{"good opener", "broken glyph", "good closer"}, 9*time.Second)
	if err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	if path != out {
		t.Errorf("returned path = %q, want %q", path, out)
	}

	// two per-line checks succeed, plus the final pass over the survivors
	if len(tk.renderFilters) != 3 {
		t.Fatalf("expected 3 successful renders, got %d", len(tk.renderFilters))
	}
	final := tk.renderFilters[len(tk.renderFilters)-1]
	if strings.Contains(final, "broken glyph") {
		t.Errorf("dropped line still present in final filter: %s", final)
	}
	if got := strings.Count(final, "drawtext"); got != 2 {
		t.Errorf("drawtext count = %d, want the 2 surviving lines", got)
	}
}

func TestOverlayFailureKeepsOriginal(t *testing.T) {
	tk := newFakeToolkit()
	tk.failRender = true
	c := NewCompositor(testLogger(), tk, testCaptionConfig(), 1920, 1080)

	path, err := c.Overlay(context.Background(), "in.mp4", "out.mp4", []string{"line"}, 4*time.Second)
	if err != nil {
		t.Fatalf("Overlay should recover, got %v", err)
	}
	if path != "in.mp4" {
		t.Errorf("expected original path on failure, got %q", path)
	}
}

func TestOverlaySkipsBlankLines(t *testing.T) {
	tk := newFakeToolkit()
	c := NewCompositor(testLogger(), tk, testCaptionConfig(), 1920, 1080)

	path, err := c.Overlay(context.Background(), "in.mp4", "out.mp4", []string{"  ", "\t"}, 4*time.Second)
	if err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	if path != "in.mp4" {
		t.Errorf("expected no-op for blank lines, got %q", path)
	}
	if tk.called("render") != 0 {
		t.Error("render should not run for blank lines")
	}
}
