package ffmpeg

import (
	"strings"
	"testing"
	"time"
)

func TestFilterBuilderChain(t *testing.T) {
	fb := NewFilterBuilder().
		Scale(1920, 1080).
		FPS(24).
		FadeIn(time.Second)

	got := fb.Build()
	want := "scale=1920:1080,fps=24,fade=t=in:st=0:d=1.000"
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
	if fb.Len() != 3 {
		t.Errorf("Len() = %d, want 3", fb.Len())
	}
}

func TestFilterBuilderEmpty(t *testing.T) {
	if got := NewFilterBuilder().Build(); got != "" {
		t.Errorf("empty builder produced %q", got)
	}
}

func TestFilterBuilderIgnoresInvalidArgs(t *testing.T) {
	fb := NewFilterBuilder().Scale(0, 1080).FPS(-1)
	if fb.Len() != 0 {
		t.Errorf("invalid args added filters: %q", fb.Build())
	}
}

func TestDrawBoxWindow(t *testing.T) {
	got := NewFilterBuilder().
		DrawBox(0, 892, 1344, 80, "black", 1.0, 2*time.Second, 4*time.Second).
		Build()

	for _, part := range []string{
		"drawbox=x=0:y=892:w=1344:h=80",
		"color=black@1.00",
		"enable='between(t,2.000,4.000)'",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("filter %q missing %q", got, part)
		}
	}
}

func TestDrawBoxFadedStaircase(t *testing.T) {
	got := NewFilterBuilder().
		DrawBoxFaded(0, 892, 1344, 80, "black", 1.0, 500*time.Millisecond, 0, 4*time.Second).
		Build()

	for _, part := range []string{
		"color=black@0.25:t=fill:enable='between(t,0.000,0.125)'",
		"color=black@0.50:t=fill:enable='between(t,0.125,0.250)'",
		"color=black@1.00:t=fill:enable='between(t,0.500,3.500)'",
		"color=black@0.25:t=fill:enable='between(t,3.875,4.000)'",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("staircase %q missing %q", got, part)
		}
	}
}

func TestDrawBoxFadedShortWindow(t *testing.T) {
	fb := NewFilterBuilder().
		DrawBoxFaded(0, 892, 1344, 80, "black", 1.0, 500*time.Millisecond, 0, 800*time.Millisecond)
	if fb.Len() != 1 {
		t.Errorf("short window should fall back to a static box, got %d filters", fb.Len())
	}
}

func TestDrawTextFadeExpression(t *testing.T) {
	got := NewFilterBuilder().
		DrawText("hello", 20, 902, 32, 500*time.Millisecond, 0, 3*time.Second).
		Build()

	if !strings.Contains(got, "text='hello'") {
		t.Errorf("filter missing text: %q", got)
	}
	if !strings.Contains(got, "alpha='if(") {
		t.Errorf("filter missing alpha ramp: %q", got)
	}
	if !strings.Contains(got, "enable='between(t,0.000,3.000)'") {
		t.Errorf("filter missing enable window: %q", got)
	}
}

func TestZoomRampDirections(t *testing.T) {
	in := NewFilterBuilder().ZoomRamp(0.3, time.Second, 24, 1920, 1080).Build()
	if !strings.Contains(in, "zoompan") || !strings.Contains(in, "min(1+0.300") {
		t.Errorf("zoom-in ramp malformed: %q", in)
	}

	out := NewFilterBuilder().ZoomRamp(-0.3, time.Second, 24, 1920, 1080).Build()
	if !strings.Contains(out, "max(1.300-0.300") {
		t.Errorf("pull-back ramp malformed: %q", out)
	}
}

func TestEscapeDrawText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"it's here", `it\\\'s here`},
		{"a:b", `a\:b`},
		{"50% off, today", `50\% off\, today`},
	}

	for _, tt := range tests {
		if got := EscapeDrawText(tt.in); got != tt.want {
			t.Errorf("EscapeDrawText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeSettingsDefaults(t *testing.T) {
	s := EncodeSettings{}.withDefaults()
	if s.Width != 1920 || s.Height != 1080 {
		t.Errorf("default frame = %dx%d", s.Width, s.Height)
	}
	if s.VideoCodec != "libx264" || s.AudioCodec != "aac" {
		t.Errorf("default codecs = %s/%s", s.VideoCodec, s.AudioCodec)
	}
	if s.FPS != 24 {
		t.Errorf("default fps = %g", s.FPS)
	}

	s = EncodeSettings{Width: 640, Height: 360, CRF: 18}.withDefaults()
	if s.Width != 640 || s.CRF != 18 {
		t.Error("explicit settings overwritten by defaults")
	}
}

func TestNormalizeFilter(t *testing.T) {
	s := EncodeSettings{Width: 1920, Height: 1080, FPS: 24}.withDefaults()
	got := normalizeFilter(s)
	want := "scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=24"
	if got != want {
		t.Errorf("normalizeFilter = %q, want %q", got, want)
	}
}
