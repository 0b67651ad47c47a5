package ffmpeg

import (
	"fmt"
	"strings"
	"time"

	"github.com/PushpenderIndia/VideoAgent/pkg/util"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// Scale adds a scale filter
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=%d:%d", width, height))
	return fb
}

// FPS adds an fps filter
func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%g", fps))
	return fb
}

// FadeIn adds a time-based fade-in at the clip head
func (fb *FilterBuilder) FadeIn(d time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf("fade=t=in:st=0:d=%s", util.FormatSeconds(d)))
	return fb
}

// FadeOut adds a time-based fade-out ending at clipDur
func (fb *FilterBuilder) FadeOut(start, d time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters,
		fmt.Sprintf("fade=t=out:st=%s:d=%s", util.FormatSeconds(start), util.FormatSeconds(d)))
	return fb
}

// DrawBox draws a filled box enabled over a time window
func (fb *FilterBuilder) DrawBox(x, y, w, h int, color string, opacity float64, from, to time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf(
		"drawbox=x=%d:y=%d:w=%d:h=%d:color=%s@%.2f:t=fill:enable='between(t,%s,%s)'",
		x, y, w, h, color, opacity, util.FormatSeconds(from), util.FormatSeconds(to)))
	return fb
}

// boxFadeSteps is the number of opacity levels in a stepped box fade.
const boxFadeSteps = 4

// DrawBoxFaded draws a filled box whose opacity ramps over fade at both
// ends of the window. drawbox cannot animate its color, so the ramp is a
// staircase of short enable windows at increasing opacity.
func (fb *FilterBuilder) DrawBoxFaded(x, y, w, h int, color string, opacity float64, fade, from, to time.Duration) *FilterBuilder {
	if fade <= 0 || 2*fade >= to-from {
		return fb.DrawBox(x, y, w, h, color, opacity, from, to)
	}
	step := fade / boxFadeSteps
	for i := 0; i < boxFadeSteps; i++ {
		level := opacity * float64(i+1) / boxFadeSteps
		fb.DrawBox(x, y, w, h, color, level, from+time.Duration(i)*step, from+time.Duration(i+1)*step)
		fb.DrawBox(x, y, w, h, color, level, to-time.Duration(i+1)*step, to-time.Duration(i)*step)
	}
	return fb.DrawBox(x, y, w, h, color, opacity, from+fade, to-fade)
}

// DrawText draws text with per-window enable and alpha fade at the window
// boundaries.
func (fb *FilterBuilder) DrawText(text string, x, y, fontSize int, fade, from, to time.Duration) *FilterBuilder {
	f := util.FormatSeconds(from)
	t := util.FormatSeconds(to)
	fd := util.FormatSeconds(fade)
	// piecewise alpha: ramp up over fade, hold, ramp down over fade
	alpha := fmt.Sprintf(
		"if(lt(t,%[1]s+%[3]s),(t-%[1]s)/%[3]s,if(gt(t,%[2]s-%[3]s),(%[2]s-t)/%[3]s,1))",
		f, t, fd)
	fb.filters = append(fb.filters, fmt.Sprintf(
		"drawtext=text='%s':x=%d:y=%d:fontsize=%d:fontcolor=white:alpha='%s':enable='between(t,%s,%s)'",
		EscapeDrawText(text), x, y, fontSize, alpha, f, t))
	return fb
}

// CenteredText draws static centered text for the whole clip
func (fb *FilterBuilder) CenteredText(text string, fontSize int) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf(
		"drawtext=text='%s':x=(w-text_w)/2:y=(h-text_h)/2:fontsize=%d:fontcolor=white",
		EscapeDrawText(text), fontSize))
	return fb
}

// ZoomRamp adds a zoompan ramp. Positive delta pushes in, negative pulls
// back; zoompan cannot scale below 1.0 so pull-backs start zoomed.
func (fb *FilterBuilder) ZoomRamp(delta float64, d time.Duration, fps float64, w, h int) *FilterBuilder {
	frames := d.Seconds() * fps
	var z string
	if delta >= 0 {
		z = fmt.Sprintf("min(1+%.3f*on/%.1f,%.3f)", delta, frames, 1+delta)
	} else {
		z = fmt.Sprintf("max(%.3f-%.3f*on/%.1f,1)", 1-delta, -delta, frames)
	}
	fb.filters = append(fb.filters, fmt.Sprintf(
		"zoompan=z='%s':d=1:x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':s=%dx%d:fps=%g",
		z, w, h, fps))
	return fb
}

// Custom adds a custom filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

// Len reports the number of filters added so far
func (fb *FilterBuilder) Len() int {
	return len(fb.filters)
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}

// EscapeDrawText escapes text for use inside a drawtext filter argument.
func EscapeDrawText(text string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\\\'`,
		`:`, `\:`,
		`%`, `\%`,
		`,`, `\,`,
	)
	return r.Replace(text)
}
