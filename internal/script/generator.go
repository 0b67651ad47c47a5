package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// GeminiGenerator generates a scene-structured script via the Gemini API.
type GeminiGenerator struct {
	logger zerolog.Logger
	client *GeminiClient
}

// NewGeminiGenerator creates a script generator backed by Gemini.
func NewGeminiGenerator(logger zerolog.Logger, client *GeminiClient) *GeminiGenerator {
	return &GeminiGenerator{
		logger: logger.With().Str("component", "script").Logger(),
		client: client,
	}
}

const scriptPromptTemplate = `Write a 2 min video script of this topic in an interactive way: %q

I want this in a json format with strictly these keys:
{"scenes": [{"title": "", "content": ["line1", "line2"]}]}

Make sure:
- The script is engaging and interactive
- Each scene has a clear title
- Content is broken down into digestible lines
- Total duration should be around 2 minutes when spoken
- Include 5-7 scenes for good pacing
- Do not include extra instructions or comments in the script, just the dialogue`

// GenerateScript asks the model for an ordered scene list.
func (g *GeminiGenerator) GenerateScript(ctx context.Context, topic string) (*Script, error) {
	g.logger.Info().Str("topic", topic).Msg("generating script")

	reply, err := g.client.Generate(ctx, fmt.Sprintf(scriptPromptTemplate, topic))
	if err != nil {
		return nil, fmt.Errorf("script generation failed: %w", err)
	}

	jsonStr, err := ExtractJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("script reply was not JSON: %w", err)
	}

	var raw struct {
		Scenes []struct {
			Title   string   `json:"title"`
			Content []string `json:"content"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse script JSON: %w", err)
	}
	if len(raw.Scenes) == 0 {
		return nil, fmt.Errorf("script has no scenes")
	}

	s := &Script{Topic: topic}
	for _, sc := range raw.Scenes {
		lines := make([]string, 0, len(sc.Content))
		for _, line := range sc.Content {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) == 0 {
			continue
		}
		// indexes stay contiguous even when empty scenes are dropped
		s.Scenes = append(s.Scenes, Scene{
			Index:   len(s.Scenes),
			Title:   strings.TrimSpace(sc.Title),
			Content: lines,
		})
	}
	if len(s.Scenes) == 0 {
		return nil, fmt.Errorf("script has no usable scenes")
	}

	g.logger.Info().Int("scenes", len(s.Scenes)).Msg("script generated")
	return s, nil
}
