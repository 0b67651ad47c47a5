package animate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/PushpenderIndia/VideoAgent/internal/script"
	"github.com/rs/zerolog"
)

// ManimGenerator detects mathematical content via the LLM, has it write a
// Manim scene, and renders it with the manim CLI.
type ManimGenerator struct {
	logger    zerolog.Logger
	client    *script.GeminiClient
	binary    string
	outputDir string
}

// NewManimGenerator creates a Manim-backed animation generator.
func NewManimGenerator(logger zerolog.Logger, client *script.GeminiClient, binary, outputDir string) *ManimGenerator {
	if binary == "" {
		binary = "manim"
	}
	return &ManimGenerator{
		logger:    logger.With().Str("component", "animate").Logger(),
		client:    client,
		binary:    binary,
		outputDir: outputDir,
	}
}

const detectPromptTemplate = `Analyze this dialogue and determine if it contains mathematical content that would benefit from visual illustration (graphs, equations, geometric shapes, data visualization, etc.):

%q

Respond with JSON in this exact format:
{"needs_manim": true/false, "content_type": "equation/graph/geometry/data/none", "description": "brief description of what should be illustrated"}`

const codePromptTemplate = `Generate Manim code to create a visual illustration for this content:

Dialogue: %q
Content Type: %s
Description: %s

Requirements:
1. Create a class named GeneratedScene that inherits from Scene
2. Use appropriate Manim objects and animations
3. Keep it simple and clear for a 2-minute video
4. Include proper timing for animations

Return only the Python code without any explanations.`

// GenerateAnimation runs detect -> generate code -> render. A negative
// detection returns nil, nil; a failed render is an error the caller treats
// as "no animation available".
func (g *ManimGenerator) GenerateAnimation(ctx context.Context, dialogue string) (*Animation, error) {
	contentType, description, needed, err := g.detect(ctx, dialogue)
	if err != nil {
		return nil, fmt.Errorf("math content detection failed: %w", err)
	}
	if !needed {
		return nil, nil
	}

	g.logger.Info().
		Str("content_type", contentType).
		Msg("generating manim illustration")

	code, err := g.generateCode(ctx, dialogue, contentType, description)
	if err != nil {
		return nil, fmt.Errorf("manim code generation failed: %w", err)
	}

	path, err := g.render(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("manim render failed: %w", err)
	}

	return &Animation{Path: path, ContentType: contentType}, nil
}

func (g *ManimGenerator) detect(ctx context.Context, dialogue string) (contentType, description string, needed bool, err error) {
	reply, err := g.client.Generate(ctx, fmt.Sprintf(detectPromptTemplate, dialogue))
	if err != nil {
		return "", "", false, err
	}
	jsonStr, err := script.ExtractJSON(reply)
	if err != nil {
		return "", "", false, err
	}
	var out struct {
		NeedsManim  bool   `json:"needs_manim"`
		ContentType string `json:"content_type"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return "", "", false, err
	}
	return out.ContentType, out.Description, out.NeedsManim, nil
}

func (g *ManimGenerator) generateCode(ctx context.Context, dialogue, contentType, description string) (string, error) {
	reply, err := g.client.Generate(ctx, fmt.Sprintf(codePromptTemplate, dialogue, contentType, description))
	if err != nil {
		return "", err
	}
	return StripCodeFence(reply), nil
}

func (g *ManimGenerator) render(ctx context.Context, code string) (string, error) {
	if _, err := exec.LookPath(g.binary); err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", g.binary, err)
	}

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", err
	}
	sceneFile, err := os.CreateTemp(g.outputDir, "manim-scene-*.py")
	if err != nil {
		return "", err
	}
	if _, err := sceneFile.WriteString(code); err != nil {
		sceneFile.Close()
		return "", err
	}
	sceneFile.Close()
	defer os.Remove(sceneFile.Name())

	cmd := exec.CommandContext(ctx, g.binary,
		"-ql",
		"--media_dir", g.outputDir,
		sceneFile.Name(),
		"GeneratedScene",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("manim exited: %w: %s", err, strings.TrimSpace(string(out)))
	}

	rendered, err := g.findRenderedVideo()
	if err != nil {
		return "", err
	}
	return rendered, nil
}

// findRenderedVideo locates the newest mp4 under the media dir; manim's
// output layout nests per-scene and per-quality directories.
func (g *ManimGenerator) findRenderedVideo() (string, error) {
	var newest string
	var newestMod int64

	err := filepath.WalkDir(g.outputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".mp4") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if mod := info.ModTime().UnixNano(); mod > newestMod {
			newest = path
			newestMod = mod
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if newest == "" {
		return "", fmt.Errorf("manim produced no video under %s", g.outputDir)
	}
	return newest, nil
}

// StripCodeFence removes a markdown python fence around generated code.
func StripCodeFence(code string) string {
	if idx := strings.Index(code, "```python"); idx >= 0 {
		code = code[idx+len("```python"):]
		if end := strings.Index(code, "```"); end >= 0 {
			code = code[:end]
		}
	}
	return strings.TrimSpace(code)
}
