package animate

import "context"

// Animation is a locally rendered illustration clip.
type Animation struct {
	Path        string
	ContentType string
}

// Generator renders a mathematical illustration for a scene's dialogue, or
// reports that the dialogue does not call for one.
type Generator interface {
	// GenerateAnimation returns nil, nil when the dialogue has no
	// mathematical content worth illustrating.
	GenerateAnimation(ctx context.Context, dialogue string) (*Animation, error)
}
