package assets

import "errors"

// Acquisition failure kinds. The assembler matches on these to drive the
// visual fallback chain; everything here is locally recoverable.
var (
	ErrInvalidURL       = errors.New("invalid footage URL")
	ErrOversizeAsset    = errors.New("footage exceeds size cap")
	ErrWrongContentType = errors.New("response is not video content")
	ErrCorruptAsset     = errors.New("downloaded file is not a valid video")
	ErrNetworkError     = errors.New("footage download failed")
	ErrNoVisualSource   = errors.New("scene has no visual source")
)
