package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// runState is the persisted record of one run; consumed by humans and
// tooling outside the pipeline, never read back by it.
type runState struct {
	GeneratedAt time.Time `json:"generated_at"`
	Result      *Result   `json:"result"`
}

// WriteRunState persists the run metadata as JSON next to the output
// video, one file per run keyed by run ID.
func WriteRunState(outputDir string, res *Result) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	state := runState{
		GeneratedAt: time.Now().UTC(),
		Result:      res,
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(outputDir, "run_"+res.RunID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
