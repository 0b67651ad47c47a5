package compile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/assets"
	"github.com/PushpenderIndia/VideoAgent/internal/script"
	"github.com/PushpenderIndia/VideoAgent/internal/stock"
)

// fakeResolver returns queued results per Resolve call.
type fakeResolver struct {
	results []*assets.VisualAsset
	errs    []error
	reqs    []assets.Request
}

func (r *fakeResolver) Resolve(ctx context.Context, req assets.Request) (*assets.VisualAsset, error) {
	r.reqs = append(r.reqs, req)
	i := len(r.reqs) - 1
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	var asset *assets.VisualAsset
	if i < len(r.results) {
		asset = r.results[i]
	}
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, assets.ErrNoVisualSource
	}
	return asset, nil
}

// fakeProvider hands out footage from a list, honoring exclusions.
type fakeProvider struct {
	footage   []stock.Footage
	exclusion map[string]bool
	sceneIdxs []int
}

func (p *fakeProvider) FindFootage(ctx context.Context, sceneIndex int, title, dialogue string, excluded map[string]bool) (*stock.Footage, error) {
	p.sceneIdxs = append(p.sceneIdxs, sceneIndex)
	p.exclusion = excluded
	for _, f := range p.footage {
		if !excluded[f.ID] {
			return &f, nil
		}
	}
	return nil, errors.New("no footage left")
}

func writeNarration(t *testing.T, dir string, idx int) string {
	t.Helper()
	path := filepath.Join(dir, "narration.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testArtifact(t *testing.T, dir string, idx int, target time.Duration) *SceneArtifact {
	return &SceneArtifact{
		Scene:             script.Scene{Index: idx, Title: "Test Scene", Content: []string{"one line", "two line"}},
		NarrationPath:     writeNarration(t, dir, idx),
		NarrationDuration: target,
		CaptionsEnabled:   true,
	}
}

func newTestAssembler(t *testing.T, tk *fakeToolkit, resolver VisualResolver, provider stock.Provider) *Assembler {
	dir := t.TempDir()
	rec := NewReconciler(testLogger(), tk)
	comp := NewCompositor(testLogger(), tk, testCaptionConfig(), 1920, 1080)
	return NewAssembler(testLogger(), tk, resolver, provider, rec, comp, dir)
}

func TestAssembleMissingNarration(t *testing.T) {
	tk := newFakeToolkit()
	a := newTestAssembler(t, tk, &fakeResolver{}, nil)

	art := &SceneArtifact{
		Scene:             script.Scene{Index: 0, Title: "No Audio"},
		NarrationPath:     "/nonexistent/narration.mp3",
		NarrationDuration: 4 * time.Second,
	}
	_, err := a.Assemble(context.Background(), art)
	if err == nil {
		t.Fatal("expected failure for missing narration")
	}
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StageError, got %T", err)
	}
	if se.Stage != StagePending {
		t.Errorf("stage = %s, want PENDING", se.Stage)
	}
	if !errors.Is(err, ErrMissingAudio) {
		t.Errorf("expected ErrMissingAudio, got %v", err)
	}
}

func TestAssemblePlaceholderFallback(t *testing.T) {
	tk := newFakeToolkit()
	a := newTestAssembler(t, tk, &fakeResolver{}, nil)

	art := testArtifact(t, t.TempDir(), 0, 4*time.Second)
	seg, err := a.Assemble(context.Background(), art)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if seg.Duration != 4*time.Second {
		t.Errorf("segment duration = %v, want 4s", seg.Duration)
	}
	if art.VisualKind != string(assets.KindPlaceholder) {
		t.Errorf("visual kind = %q, want placeholder", art.VisualKind)
	}
	if tk.called("card") != 1 {
		t.Errorf("expected one placeholder card, got %d", tk.called("card"))
	}
	if tk.called("mux") != 1 {
		t.Errorf("expected one mux, got %d", tk.called("mux"))
	}
	// placeholder is already exact duration, no fitting pass
	if tk.called("trim") != 0 || tk.called("loop") != 0 {
		t.Errorf("placeholder should skip reconciliation, calls %v", tk.calls)
	}
}

func TestAssembleFootagePath(t *testing.T) {
	tk := newFakeToolkit()
	resolver := &fakeResolver{
		results: []*assets.VisualAsset{
			{Path: "footage.mp4", Duration: 15 * time.Second, Kind: assets.KindFootage},
		},
	}
	a := newTestAssembler(t, tk, resolver, nil)

	art := testArtifact(t, t.TempDir(), 1, 5*time.Second)
	art.FootageURL = "https://example.com/clip.mp4"
	art.FootageID = "clip-1"

	seg, err := a.Assemble(context.Background(), art)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if seg.Duration != 5*time.Second {
		t.Errorf("segment duration = %v, want 5s", seg.Duration)
	}
	if tk.called("trim") != 1 {
		t.Errorf("longer footage should be trimmed, calls %v", tk.calls)
	}
	if !a.UsedFootage()["clip-1"] {
		t.Error("footage ID not marked used")
	}
	if art.VisualKind != string(assets.KindFootage) {
		t.Errorf("visual kind = %q, want footage", art.VisualKind)
	}
}

func TestAssembleAlternateFootage(t *testing.T) {
	tk := newFakeToolkit()
	resolver := &fakeResolver{
		errs: []error{assets.ErrCorruptAsset, nil},
		results: []*assets.VisualAsset{
			nil,
			{Path: "alt.mp4", Duration: 8 * time.Second, Kind: assets.KindFootage},
		},
	}
	provider := &fakeProvider{
		footage: []stock.Footage{{URL: "https://example.com/alt.mp4", ID: "alt-1"}},
	}
	a := newTestAssembler(t, tk, resolver, provider)
	a.MarkFootageUsed("already-used")

	art := testArtifact(t, t.TempDir(), 2, 6*time.Second)
	art.FootageURL = "https://example.com/bad.mp4"
	art.FootageID = "bad-1"

	if _, err := a.Assemble(context.Background(), art); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(resolver.reqs) != 2 {
		t.Fatalf("expected 2 resolve attempts, got %d", len(resolver.reqs))
	}
	if resolver.reqs[1].FootageURL != "https://example.com/alt.mp4" {
		t.Errorf("second attempt URL = %q", resolver.reqs[1].FootageURL)
	}
	if !provider.exclusion["already-used"] {
		t.Error("provider did not receive the exclusion set")
	}
	if len(provider.sceneIdxs) != 1 || provider.sceneIdxs[0] != 2 {
		t.Errorf("provider saw scene indexes %v, want [2]", provider.sceneIdxs)
	}
	if !a.UsedFootage()["alt-1"] {
		t.Error("alternate footage ID not marked used")
	}
	if art.FootageID != "alt-1" {
		t.Errorf("artifact footage ID = %q, want alt-1", art.FootageID)
	}
}

func TestAssembleRetryExhaustionUsesPlaceholder(t *testing.T) {
	tk := newFakeToolkit()
	resolver := &fakeResolver{
		errs: []error{assets.ErrNetworkError, assets.ErrNetworkError},
	}
	provider := &fakeProvider{
		footage: []stock.Footage{{URL: "https://example.com/alt.mp4", ID: "alt-1"}},
	}
	a := newTestAssembler(t, tk, resolver, provider)

	art := testArtifact(t, t.TempDir(), 3, 5*time.Second)
	art.FootageURL = "https://example.com/bad.mp4"

	seg, err := a.Assemble(context.Background(), art)
	if err != nil {
		t.Fatalf("Assemble should fall back to placeholder, got %v", err)
	}
	if len(resolver.reqs) != 2 {
		t.Errorf("retry should be bounded at 2 attempts, got %d", len(resolver.reqs))
	}
	if art.VisualKind != string(assets.KindPlaceholder) {
		t.Errorf("visual kind = %q, want placeholder", art.VisualKind)
	}
	if seg == nil || seg.Duration != 5*time.Second {
		t.Errorf("unexpected segment %+v", seg)
	}
}

func TestAssembleMuxFailureIsFatal(t *testing.T) {
	tk := newFakeToolkit()
	tk.failMux = true
	a := newTestAssembler(t, tk, &fakeResolver{}, nil)

	art := testArtifact(t, t.TempDir(), 4, 3*time.Second)
	_, err := a.Assemble(context.Background(), art)
	if err == nil {
		t.Fatal("expected mux failure")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageMuxed {
		t.Errorf("expected failure at MUXED, got %v", err)
	}
	if !errors.Is(err, ErrEncodeFailure) {
		t.Errorf("expected ErrEncodeFailure, got %v", err)
	}
}

func TestAssembleUnreadableSegmentIsFatal(t *testing.T) {
	tk := newFakeToolkit()
	tk.failProbe = true
	a := newTestAssembler(t, tk, &fakeResolver{}, nil)

	art := testArtifact(t, t.TempDir(), 6, 3*time.Second)
	_, err := a.Assemble(context.Background(), art)
	if err == nil {
		t.Fatal("expected unreadable muxed segment to fail")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageWritten {
		t.Errorf("expected failure at WRITTEN, got %v", err)
	}
	if !errors.Is(err, ErrEncodeFailure) {
		t.Errorf("expected ErrEncodeFailure, got %v", err)
	}
}

func TestAssembleCaptionsDisabledSkipsRender(t *testing.T) {
	tk := newFakeToolkit()
	a := newTestAssembler(t, tk, &fakeResolver{}, nil)

	art := testArtifact(t, t.TempDir(), 5, 3*time.Second)
	art.CaptionsEnabled = false

	if _, err := a.Assemble(context.Background(), art); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if tk.called("render") != 0 {
		t.Errorf("captions disabled but render ran, calls %v", tk.calls)
	}
}

func TestAssembleUniqueFootageAcrossScenes(t *testing.T) {
	tk := newFakeToolkit()
	provider := &fakeProvider{
		footage: []stock.Footage{
			{URL: "https://example.com/a.mp4", ID: "a"},
			{URL: "https://example.com/b.mp4", ID: "b"},
		},
	}
	resolver := &fakeResolver{
		errs: []error{assets.ErrNoVisualSource, nil, assets.ErrNoVisualSource, nil},
		results: []*assets.VisualAsset{
			nil,
			{Path: "a.mp4", Duration: 4 * time.Second, Kind: assets.KindFootage},
			nil,
			{Path: "b.mp4", Duration: 4 * time.Second, Kind: assets.KindFootage},
		},
	}
	a := newTestAssembler(t, tk, resolver, provider)
	a.ResetRun()

	ids := make(map[string]bool)
	for i := 0; i < 2; i++ {
		art := testArtifact(t, t.TempDir(), i, 2*time.Second)
		if _, err := a.Assemble(context.Background(), art); err != nil {
			t.Fatalf("scene %d: %v", i, err)
		}
		if art.FootageID == "" {
			t.Fatalf("scene %d resolved no footage", i)
		}
		if ids[art.FootageID] {
			t.Errorf("footage %q used twice in one run", art.FootageID)
		}
		ids[art.FootageID] = true
	}
}
