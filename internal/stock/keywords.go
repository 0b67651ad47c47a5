package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PushpenderIndia/VideoAgent/internal/script"
	"github.com/rs/zerolog"
)

// KeywordGenerator derives a single search keyword from a scene, weighting
// the title over the dialogue. The LLM does the weighting; the fallback
// picks the first word longer than minWordLen, title first.
type KeywordGenerator struct {
	logger     zerolog.Logger
	client     *script.GeminiClient
	minWordLen int
}

// NewKeywordGenerator creates a keyword generator. client may be nil, in
// which case only the heuristic fallback is used.
func NewKeywordGenerator(logger zerolog.Logger, client *script.GeminiClient, minWordLen int) *KeywordGenerator {
	if minWordLen <= 0 {
		minWordLen = 3
	}
	return &KeywordGenerator{
		logger:     logger.With().Str("component", "keywords").Logger(),
		client:     client,
		minWordLen: minWordLen,
	}
}

const keywordPromptTemplate = `Generate exactly 1 search keyword for finding video illustrations.
Give 70%% priority to the TITLE and 30%% priority to the dialogue content.
Make the keyword specific and unique for scene %d.

TITLE (70%% priority): %s
DIALOGUE (30%% priority): %s

Output in JSON format: {"keyword": "single_keyword"}

Focus mainly on the title concept, supplemented by dialogue context.`

// Keyword returns the search keyword for a scene.
func (g *KeywordGenerator) Keyword(ctx context.Context, title, dialogue string, sceneIndex int) string {
	if g.client != nil {
		if kw, err := g.generate(ctx, title, dialogue, sceneIndex); err == nil && kw != "" {
			return kw
		} else if err != nil {
			g.logger.Warn().Err(err).Int("scene", sceneIndex).Msg("keyword generation failed, using fallback")
		}
	}
	return FallbackKeyword(title, dialogue, g.minWordLen)
}

func (g *KeywordGenerator) generate(ctx context.Context, title, dialogue string, sceneIndex int) (string, error) {
	reply, err := g.client.Generate(ctx, fmt.Sprintf(keywordPromptTemplate, sceneIndex, title, dialogue))
	if err != nil {
		return "", err
	}
	jsonStr, err := script.ExtractJSON(reply)
	if err != nil {
		return "", err
	}
	var out struct {
		Keyword string `json:"keyword"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Keyword), nil
}

// FallbackKeyword picks the first word of at least minWordLen runes, looking
// at the title before the dialogue. When nothing qualifies it falls back to
// the very first word of whichever text is non-empty, then to a generic
// search term.
func FallbackKeyword(title, dialogue string, minWordLen int) string {
	for _, source := range []string{title, dialogue} {
		for _, w := range strings.Fields(strings.ToLower(source)) {
			if len([]rune(w)) >= minWordLen {
				return w
			}
		}
	}
	for _, source := range []string{title, dialogue} {
		if words := strings.Fields(strings.ToLower(source)); len(words) > 0 {
			return words[0]
		}
	}
	return "nature"
}
