package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PushpenderIndia/VideoAgent/pkg/util"
	"github.com/rs/zerolog"
)

// VisualKind tags where a scene's imagery came from.
type VisualKind string

const (
	KindAnimation   VisualKind = "animation"
	KindFootage     VisualKind = "footage"
	KindPlaceholder VisualKind = "placeholder"
)

// VisualAsset is a local, validated media file ready for reconciliation.
type VisualAsset struct {
	Path     string
	Duration time.Duration
	Kind     VisualKind
}

// Request names a scene's visual sources; at most one of AnimationPath and
// FootageURL is expected to be set.
type Request struct {
	SceneIndex    int
	AnimationPath string
	FootageURL    string
}

// DurationProber validates that a file decodes as a media container with a
// readable duration; satisfied by the ffmpeg executor.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

// Acquirer resolves a scene's visual requirement into a local validated
// asset. Remote downloads are size- and type-guarded, validated by probing,
// and cached per scene index for the lifetime of one run.
type Acquirer struct {
	logger     zerolog.Logger
	httpClient *http.Client
	prober     DurationProber
	cacheDir   string
	maxBytes   int64
	userAgent  string
	cache      map[int]string
}

// NewAcquirer creates an acquirer writing downloads under cacheDir.
func NewAcquirer(logger zerolog.Logger, prober DurationProber, cacheDir string, maxSizeMB int, timeout time.Duration, userAgent string) *Acquirer {
	if maxSizeMB <= 0 {
		maxSizeMB = 50
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Acquirer{
		logger:     logger.With().Str("component", "assets").Logger(),
		httpClient: &http.Client{Timeout: timeout},
		prober:     prober,
		cacheDir:   cacheDir,
		maxBytes:   int64(maxSizeMB) * 1024 * 1024,
		userAgent:  userAgent,
		cache:      make(map[int]string),
	}
}

// Resolve returns a local validated visual asset for the request. Animation
// paths pass through untouched; footage URLs are downloaded and validated;
// neither set reports ErrNoVisualSource.
func (a *Acquirer) Resolve(ctx context.Context, req Request) (*VisualAsset, error) {
	if req.AnimationPath != "" {
		if !util.FileExists(req.AnimationPath) {
			return nil, fmt.Errorf("%w: animation file missing: %s", ErrNoVisualSource, req.AnimationPath)
		}
		dur, err := a.prober.ProbeDuration(ctx, req.AnimationPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptAsset, err)
		}
		return &VisualAsset{Path: req.AnimationPath, Duration: dur, Kind: KindAnimation}, nil
	}

	if req.FootageURL != "" {
		return a.download(ctx, req.SceneIndex, req.FootageURL)
	}

	return nil, ErrNoVisualSource
}

func (a *Acquirer) download(ctx context.Context, sceneIndex int, rawURL string) (*VisualAsset, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if err := os.MkdirAll(a.cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	outputPath := filepath.Join(a.cacheDir, fmt.Sprintf("downloaded_%d.mp4", sceneIndex))

	a.logger.Info().
		Int("scene", sceneIndex).
		Str("url", rawURL).
		Msg("downloading footage")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}
	req.Header.Set("Accept", "video/webm,video/ogg,video/*;q=0.9,*/*;q=0.5")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNetworkError, resp.StatusCode)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "video") && !strings.Contains(contentType, "application/octet-stream") {
		return nil, fmt.Errorf("%w: %q", ErrWrongContentType, contentType)
	}

	// declared size check happens before any body bytes touch disk
	if resp.ContentLength > a.maxBytes {
		return nil, fmt.Errorf("%w: declared %d bytes, cap %d", ErrOversizeAsset, resp.ContentLength, a.maxBytes)
	}

	written, err := a.writeCapped(outputPath, resp.Body)
	if err != nil {
		util.CleanupFiles(outputPath)
		return nil, err
	}
	if written == 0 {
		util.CleanupFiles(outputPath)
		return nil, fmt.Errorf("%w: empty download", ErrCorruptAsset)
	}

	dur, err := a.prober.ProbeDuration(ctx, outputPath)
	if err != nil {
		util.CleanupFiles(outputPath)
		return nil, fmt.Errorf("%w: %v", ErrCorruptAsset, err)
	}

	a.cache[sceneIndex] = outputPath
	a.logger.Info().
		Int("scene", sceneIndex).
		Int64("bytes", written).
		Dur("duration", dur).
		Msg("footage downloaded")

	return &VisualAsset{Path: outputPath, Duration: dur, Kind: KindFootage}, nil
}

// writeCapped streams the body to disk, failing once actual bytes exceed the
// cap even when the server declared no Content-Length.
func (a *Acquirer) writeCapped(path string, body io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(body, a.maxBytes+1))
	if err != nil {
		return written, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	if written > a.maxBytes {
		return written, fmt.Errorf("%w: body exceeds %d bytes", ErrOversizeAsset, a.maxBytes)
	}
	return written, nil
}

// Purge deletes all cached downloads; called at the end of a full run.
func (a *Acquirer) Purge() {
	for idx, path := range a.cache {
		if err := os.Remove(path); err == nil {
			a.logger.Debug().Int("scene", idx).Str("path", path).Msg("purged cached footage")
		}
		delete(a.cache, idx)
	}
}
