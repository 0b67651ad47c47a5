package compile

import (
	"context"
	"strings"
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/config"
	"github.com/PushpenderIndia/VideoAgent/internal/ffmpeg"
	"github.com/PushpenderIndia/VideoAgent/pkg/util"
	"github.com/rs/zerolog"
)

// CaptionWindow is one dialogue line with its display interval.
type CaptionWindow struct {
	Line  string
	Start time.Duration
	End   time.Duration
}

// CaptionWindows partitions the segment duration evenly across the lines,
// in order, with no gaps or overlap.
func CaptionWindows(lines []string, total time.Duration) []CaptionWindow {
	if len(lines) == 0 || total <= 0 {
		return nil
	}
	per := total / time.Duration(len(lines))
	windows := make([]CaptionWindow, len(lines))
	for i, line := range lines {
		windows[i] = CaptionWindow{
			Line:  line,
			Start: time.Duration(i) * per,
			End:   time.Duration(i+1) * per,
		}
	}
	// absorb division remainder so the last window ends exactly at total
	windows[len(windows)-1].End = total
	return windows
}

// Compositor burns dialogue lines onto a segment as timed lower-third
// captions. Captioning is best-effort: a line that cannot be rendered is
// skipped, and a whole-pass failure leaves the segment uncaptioned.
type Compositor struct {
	logger zerolog.Logger
	tk     Toolkit
	cfg    config.CaptionConfig
	width  int
	height int
}

func NewCompositor(logger zerolog.Logger, tk Toolkit, cfg config.CaptionConfig, width, height int) *Compositor {
	return &Compositor{
		logger: logger.With().Str("component", "captions").Logger(),
		tk:     tk,
		cfg:    cfg,
		width:  width,
		height: height,
	}
}

// Overlay renders captions for the given lines over input, writing to
// output. All lines render in a single pass when possible; if that pass
// fails, each line is retried in isolation and the ones ffmpeg rejects
// are dropped, so one bad line cannot lose the rest. It returns the path
// the caller should use next: output on success, input when captioning
// was skipped or failed entirely.
func (c *Compositor) Overlay(ctx context.Context, input, output string, lines []string, total time.Duration) (string, error) {
	windows := CaptionWindows(trimLines(lines), total)
	if len(windows) == 0 {
		return input, nil
	}
	l := c.layout()

	err := c.render(ctx, input, output, windows, l)
	if err == nil {
		c.logger.Debug().Int("lines", len(windows)).Str("output", output).Msg("captions burned in")
		return output, nil
	}
	c.logger.Warn().Err(err).Str("input", input).Msg("caption render failed, retrying line by line")

	kept := c.renderableWindows(ctx, input, output, windows, l)
	if len(kept) == 0 {
		c.logger.Warn().Str("input", input).Msg("no caption line renders, keeping uncaptioned segment")
		return input, nil
	}
	if err := c.render(ctx, input, output, kept, l); err != nil {
		c.logger.Warn().Err(err).Str("input", input).Msg("caption render failed, keeping uncaptioned segment")
		return input, nil
	}

	c.logger.Debug().
		Int("lines", len(kept)).
		Int("dropped", len(windows)-len(kept)).
		Str("output", output).
		Msg("captions burned in")
	return output, nil
}

type boxLayout struct {
	w, h, y int
	fade    time.Duration
}

func (c *Compositor) layout() boxLayout {
	return boxLayout{
		w:    int(float64(c.width) * c.cfg.WidthRatio),
		h:    c.cfg.BoxHeight,
		y:    c.height - c.cfg.BoxHeight - int(float64(c.height)*c.cfg.BottomMargin),
		fade: time.Duration(c.cfg.FadeSec * float64(time.Second)),
	}
}

func (c *Compositor) lineFilters(fb *ffmpeg.FilterBuilder, w CaptionWindow, l boxLayout) {
	// near-black base with a lighter translucent layer on top, both fading
	// with the text
	fb.DrawBoxFaded(0, l.y, l.w, l.h, "black", 1.0, l.fade, w.Start, w.End)
	fb.DrawBoxFaded(0, l.y, l.w, l.h, "0x1E1E1E", 0.3, l.fade, w.Start, w.End)
	fb.DrawText(w.Line, 20, l.y+10, c.cfg.FontSize, l.fade, w.Start, w.End)
}

func (c *Compositor) render(ctx context.Context, input, output string, windows []CaptionWindow, l boxLayout) error {
	fb := ffmpeg.NewFilterBuilder()
	for _, w := range windows {
		c.lineFilters(fb, w, l)
	}
	return c.tk.Render(ctx, input, output, fb.Build(), "")
}

// renderableWindows renders each line alone against a scratch output and
// keeps the ones that succeed.
func (c *Compositor) renderableWindows(ctx context.Context, input, output string, windows []CaptionWindow, l boxLayout) []CaptionWindow {
	scratch := output + ".check.mp4"
	defer util.CleanupFiles(scratch)

	kept := make([]CaptionWindow, 0, len(windows))
	for _, w := range windows {
		fb := ffmpeg.NewFilterBuilder()
		c.lineFilters(fb, w, l)
		if err := c.tk.Render(ctx, input, scratch, fb.Build(), ""); err != nil {
			c.logger.Warn().Err(err).Str("line", w.Line).Msg("caption line rejected, dropping it")
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

func trimLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}
