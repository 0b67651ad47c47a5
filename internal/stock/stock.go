package stock

import "context"

// Footage is one remote stock clip candidate. ID is the uniqueness key the
// pipeline tracks across a run; for Getty previews it equals the URL.
type Footage struct {
	URL     string
	ID      string
	Keyword string
}

// Provider finds remote footage for a scene. Implementations must honor the
// exclusion set: a returned Footage.ID never appears in excluded.
type Provider interface {
	FindFootage(ctx context.Context, sceneIndex int, title, dialogue string, excluded map[string]bool) (*Footage, error)
}
