package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

var voiceIDs = map[string]string{
	"Daniel": "onwK4e9ZLuTAKqWW03F9",
	"Female": "21m00Tcm4TlvDq8ikWAM",
}

// ElevenLabsSynthesizer calls the ElevenLabs TTS API and falls back to the
// edge-tts CLI when the API is unavailable.
type ElevenLabsSynthesizer struct {
	logger     zerolog.Logger
	httpClient *http.Client
	prober     DurationProber
	apiKey     string
	voiceID    string
}

// NewElevenLabs creates a synthesizer for the named voice character.
func NewElevenLabs(logger zerolog.Logger, prober DurationProber, apiKey, character string) *ElevenLabsSynthesizer {
	voiceID, ok := voiceIDs[character]
	if !ok {
		voiceID = voiceIDs["Daniel"]
	}
	return &ElevenLabsSynthesizer{
		logger:     logger.With().Str("component", "voice").Logger(),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		prober:     prober,
		apiKey:     apiKey,
		voiceID:    voiceID,
	}
}

// Synthesize writes narration audio for text to outputPath and measures its
// duration. ElevenLabs first, edge-tts when that fails.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text, outputPath string) (*Narration, error) {
	if err := s.synthesizeAPI(ctx, text, outputPath); err != nil {
		s.logger.Warn().Err(err).Msg("elevenlabs failed, falling back to edge-tts")
		if fbErr := s.synthesizeEdgeTTS(ctx, text, outputPath); fbErr != nil {
			return nil, fmt.Errorf("all synthesis backends failed: elevenlabs: %v; edge-tts: %w", err, fbErr)
		}
	}

	dur, err := s.prober.ProbeDuration(ctx, outputPath)
	if err != nil {
		return nil, fmt.Errorf("synthesized audio is unreadable: %w", err)
	}

	s.logger.Info().Str("output", outputPath).Dur("duration", dur).Msg("narration synthesized")
	return &Narration{Path: outputPath, Duration: dur}, nil
}

func (s *ElevenLabsSynthesizer) synthesizeAPI(ctx context.Context, text, outputPath string) error {
	if s.apiKey == "" {
		return fmt.Errorf("elevenlabs api key is not set")
	}

	body, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s", s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("elevenlabs returned %d", resp.StatusCode)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return nil
}

func (s *ElevenLabsSynthesizer) synthesizeEdgeTTS(ctx context.Context, text, outputPath string) error {
	if _, err := exec.LookPath("edge-tts"); err != nil {
		return fmt.Errorf("edge-tts not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "edge-tts",
		"--voice", "en-US-GuyNeural",
		"--text", text,
		"--write-media", outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("edge-tts failed: %w: %s", err, bytes.TrimSpace(out))
	}
	return nil
}
