package compile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Reconciler forces a visual asset to exactly the narration duration.
// Longer assets are trimmed, shorter ones loop-extended, and a failed loop
// falls back to a freeze extension, so fitting degrades but never gives up.
type Reconciler struct {
	logger zerolog.Logger
	tk     Toolkit
}

func NewReconciler(logger zerolog.Logger, tk Toolkit) *Reconciler {
	return &Reconciler{
		logger: logger.With().Str("component", "reconcile").Logger(),
		tk:     tk,
	}
}

// LoopCount returns how many copies of an asset cover the target. The
// result always overshoots so the trim afterwards lands exactly on target.
func LoopCount(asset, target time.Duration) int {
	if asset <= 0 {
		return 1
	}
	return int(target/asset) + 1
}

// Fit writes a silent video of exactly target duration to output.
func (r *Reconciler) Fit(ctx context.Context, input string, sourceDur, target time.Duration, output string) error {
	if target <= 0 {
		return fmt.Errorf("%w: non-positive target duration", ErrEncodeFailure)
	}

	if sourceDur >= target {
		if err := r.tk.Trim(ctx, input, output, target); err != nil {
			return fmt.Errorf("%w: trim: %v", ErrEncodeFailure, err)
		}
		return nil
	}

	copies := LoopCount(sourceDur, target)
	r.logger.Debug().
		Str("input", input).
		Dur("source", sourceDur).
		Dur("target", target).
		Int("copies", copies).
		Msg("loop-extending to target")

	if err := r.tk.Loop(ctx, input, output, copies, target); err == nil {
		return nil
	} else {
		r.logger.Warn().Err(err).Str("input", input).Msg("loop failed, freeze-extending")
	}

	if err := r.tk.FreezeExtend(ctx, input, output, sourceDur, target); err != nil {
		return fmt.Errorf("%w: freeze extend: %v", ErrEncodeFailure, err)
	}
	return nil
}
