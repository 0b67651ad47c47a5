package script

import "context"

// Scene is one titled unit of narration in the script. Scenes are created
// once by the generator and never mutated afterwards.
type Scene struct {
	Index   int      `json:"index"`
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// Script is the ordered scene list for one topic.
type Script struct {
	Topic  string  `json:"topic"`
	Scenes []Scene `json:"scenes"`
}

// Dialogue joins the scene's narration lines into the spoken text.
func (s Scene) Dialogue() string {
	out := ""
	for i, line := range s.Content {
		if i > 0 {
			out += " "
		}
		out += line
	}
	return out
}

// Generator produces a script for a topic.
type Generator interface {
	GenerateScript(ctx context.Context, topic string) (*Script, error)
}
