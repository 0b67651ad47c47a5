package compile

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/ffmpeg"
)

// fakeToolkit records operations and writes marker files so path handling
// can be exercised without ffmpeg installed.
type fakeToolkit struct {
	calls []string

	failTrim   bool
	failLoop   bool
	failFreeze bool
	failRender bool
	failMux    bool
	failConcat bool
	failCard   bool
	failBlack  bool
	failFade   bool
	failZoom   bool
	failProbe  bool

	// failRenderMatch fails only renders whose filter contains it
	failRenderMatch string

	probed map[string]time.Duration

	trimTargets   []time.Duration
	loopCopies    []int
	renderFilters []string
	cardSpecs     []ffmpeg.CardSpec
	lastConcat    []string
}

func newFakeToolkit() *fakeToolkit {
	return &fakeToolkit{probed: make(map[string]time.Duration)}
}

func (f *fakeToolkit) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeToolkit) called(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func touch(path string) error {
	return os.WriteFile(path, []byte("fake"), 0644)
}

func (f *fakeToolkit) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	f.record("probe")
	if f.failProbe {
		return 0, fmt.Errorf("unreadable file %s", path)
	}
	if d, ok := f.probed[path]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown file %s", path)
}

func (f *fakeToolkit) Trim(ctx context.Context, input, output string, target time.Duration) error {
	f.record("trim")
	if f.failTrim {
		return fmt.Errorf("trim failed")
	}
	f.trimTargets = append(f.trimTargets, target)
	f.probed[output] = target
	return touch(output)
}

func (f *fakeToolkit) Loop(ctx context.Context, input, output string, copies int, target time.Duration) error {
	f.record("loop")
	if f.failLoop {
		return fmt.Errorf("loop failed")
	}
	f.loopCopies = append(f.loopCopies, copies)
	f.probed[output] = target
	return touch(output)
}

func (f *fakeToolkit) FreezeExtend(ctx context.Context, input, output string, sourceDur, target time.Duration) error {
	f.record("freeze")
	if f.failFreeze {
		return fmt.Errorf("freeze failed")
	}
	f.probed[output] = target
	return touch(output)
}

func (f *fakeToolkit) Render(ctx context.Context, input, output, videoFilter, audioFilter string) error {
	f.record("render")
	if f.failRender {
		return fmt.Errorf("render failed")
	}
	if f.failRenderMatch != "" && strings.Contains(videoFilter, f.failRenderMatch) {
		return fmt.Errorf("render rejected filter")
	}
	f.renderFilters = append(f.renderFilters, videoFilter)
	f.probed[output] = f.probed[input]
	return touch(output)
}

func (f *fakeToolkit) Mux(ctx context.Context, video, audio, output string) error {
	f.record("mux")
	if f.failMux {
		return fmt.Errorf("mux failed")
	}
	f.probed[output] = f.probed[video]
	return touch(output)
}

func (f *fakeToolkit) Concat(ctx context.Context, inputs []string, output string) error {
	f.record("concat")
	if f.failConcat {
		return fmt.Errorf("concat failed")
	}
	f.lastConcat = append([]string(nil), inputs...)
	var total time.Duration
	for _, in := range inputs {
		total += f.probed[in]
	}
	f.probed[output] = total
	return touch(output)
}

func (f *fakeToolkit) Card(ctx context.Context, output string, spec ffmpeg.CardSpec) error {
	f.record("card")
	if f.failCard {
		return fmt.Errorf("card failed")
	}
	f.cardSpecs = append(f.cardSpecs, spec)
	f.probed[output] = spec.Duration
	return touch(output)
}

func (f *fakeToolkit) BlackClip(ctx context.Context, output string, d time.Duration) error {
	f.record("black")
	if f.failBlack {
		return fmt.Errorf("black clip failed")
	}
	f.probed[output] = d
	return touch(output)
}

func (f *fakeToolkit) FadeEdges(ctx context.Context, input, output string, clipDur time.Duration, fadeIn, fadeOut bool, d time.Duration) error {
	f.record("fade")
	if f.failFade {
		return fmt.Errorf("fade failed")
	}
	f.probed[output] = clipDur
	return touch(output)
}

func (f *fakeToolkit) ZoomTail(ctx context.Context, input, output string, clipDur time.Duration, delta float64, d time.Duration) error {
	f.record("zoom")
	if f.failZoom {
		return fmt.Errorf("zoom failed")
	}
	f.probed[output] = clipDur
	return touch(output)
}
