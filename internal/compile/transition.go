package compile

import (
	"math/rand"
	"strings"
	"time"

	"github.com/PushpenderIndia/VideoAgent/internal/config"
	"github.com/PushpenderIndia/VideoAgent/internal/script"
	"github.com/rs/zerolog"
)

// Selector picks a transition effect for each adjacent scene pair by
// matching keyword categories over both scenes' content. Category matches
// pick randomly within a small set for variety; the positional fallback is
// fully deterministic.
type Selector struct {
	logger zerolog.Logger
	cfg    config.TransitionConfig
	rng    *rand.Rand
}

// NewSelector creates a selector. Pass seed 0 for a time-seeded source;
// tests pass a fixed seed.
func NewSelector(logger zerolog.Logger, cfg config.TransitionConfig, seed int64) *Selector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Selector{
		logger: logger.With().Str("component", "transitions").Logger(),
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

var positionalOrder = []Effect{EffectCrossfade, EffectZoomIn, EffectFadeToBlack, EffectQuickFade}

// Select decides the effect bridging prev into next. position is the
// junction index, used only by the round-robin fallback.
func (s *Selector) Select(prev, next script.Scene, position int) TransitionDecision {
	effect, rationale := s.classify(prev, next, position)

	d := TransitionDecision{
		FromIndex: prev.Index,
		ToIndex:   next.Index,
		Effect:    effect,
		Rationale: rationale,
	}
	s.logger.Debug().
		Int("from", d.FromIndex).
		Int("to", d.ToIndex).
		Str("effect", string(d.Effect)).
		Str("reason", d.Rationale).
		Msg("transition selected")
	return d
}

func (s *Selector) classify(prev, next script.Scene, position int) (Effect, string) {
	text := strings.ToLower(prev.Dialogue() + " " + next.Dialogue())

	switch {
	case containsAny(text, s.cfg.ActionWords):
		return s.oneOf(EffectZoomIn, EffectZoomOut, EffectQuickFade), "action vocabulary"
	case containsAny(text, s.cfg.DramaticWords):
		return s.oneOf(EffectFadeToBlack, EffectCrossfade), "dramatic vocabulary"
	case containsAny(text, s.cfg.TemporalWords):
		return EffectQuickFade, "temporal vocabulary"
	case containsAny(text, s.cfg.ScaleWords):
		return s.oneOf(EffectZoomIn, EffectZoomOut), "scale vocabulary"
	}

	if position < 0 {
		return EffectCrossfade, "fallback"
	}
	return positionalOrder[position%len(positionalOrder)], "positional rotation"
}

func (s *Selector) oneOf(effects ...Effect) Effect {
	return effects[s.rng.Intn(len(effects))]
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}
