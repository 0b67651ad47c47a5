package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core paths
	MediaDir  string `yaml:"media_dir"`
	OutputDir string `yaml:"output_dir"`
	TempDir   string `yaml:"temp_dir"`

	Video       VideoConfig       `yaml:"video"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Download    DownloadConfig    `yaml:"download"`
	Captions    CaptionConfig     `yaml:"captions"`
	Transitions TransitionConfig  `yaml:"transitions"`
	Providers   ProviderConfig    `yaml:"providers"`
}

// VideoConfig pins the output format shared by every written segment and
// the final timeline.
type VideoConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FPS        float64 `yaml:"fps"`
	VideoCodec string  `yaml:"video_codec"`
	AudioCodec string  `yaml:"audio_codec"`
	CRF        int     `yaml:"crf"`
	Preset     string  `yaml:"preset"`
	IntroText  string  `yaml:"intro_text"`
	OutroText  string  `yaml:"outro_text"`
	CardSec    float64 `yaml:"card_sec"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Threads    int    `yaml:"threads"`
}

// DownloadConfig guards remote footage acquisition.
type DownloadConfig struct {
	MaxSizeMB  int           `yaml:"max_size_mb"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	MaxResults int           `yaml:"max_results"`
}

type CaptionConfig struct {
	Enabled      bool    `yaml:"enabled"`
	WidthRatio   float64 `yaml:"width_ratio"`
	BoxHeight    int     `yaml:"box_height"`
	BottomMargin float64 `yaml:"bottom_margin"`
	FontSize     int     `yaml:"font_size"`
	FadeSec      float64 `yaml:"fade_sec"`
}

// TransitionConfig exposes the keyword vocabularies as policy rather than a
// fixed contract; the defaults follow the categories the selector was tuned
// with.
type TransitionConfig struct {
	EffectSec     float64  `yaml:"effect_sec"`
	ActionWords   []string `yaml:"action_words"`
	DramaticWords []string `yaml:"dramatic_words"`
	TemporalWords []string `yaml:"temporal_words"`
	ScaleWords    []string `yaml:"scale_words"`
}

type ProviderConfig struct {
	GeminiModel   string `yaml:"gemini_model"`
	Voice         string `yaml:"voice"`
	ManimBinary   string `yaml:"manim_binary"`
	EnableManim   bool   `yaml:"enable_manim"`
	MinKeywordLen int    `yaml:"min_keyword_len"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		MediaDir:  "./media",
		OutputDir: "./output",
		TempDir:   "./tmp",
		Video: VideoConfig{
			Width:      1920,
			Height:     1080,
			FPS:        24,
			VideoCodec: "libx264",
			AudioCodec: "aac",
			CRF:        23,
			Preset:     "medium",
			IntroText:  "",
			OutroText:  "Thank you for watching!",
			CardSec:    3,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			Threads:    0,
		},
		Download: DownloadConfig{
			MaxSizeMB:  50,
			Timeout:    30 * time.Second,
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			MaxResults: 5,
		},
		Captions: CaptionConfig{
			Enabled:      true,
			WidthRatio:   0.7,
			BoxHeight:    80,
			BottomMargin: 0.1,
			FontSize:     32,
			FadeSec:      0.5,
		},
		Transitions: TransitionConfig{
			EffectSec:     1.0,
			ActionWords:   []string{"move", "run", "walk", "travel", "journey", "go", "arrive", "leave", "fast", "quick"},
			DramaticWords: []string{"dramatic", "emotional", "sad", "happy", "surprise", "shock", "reveal"},
			TemporalWords: []string{"time", "then", "next", "after", "before", "meanwhile", "suddenly"},
			ScaleWords:    []string{"big", "small", "large", "tiny", "huge", "grow", "shrink", "expand"},
		},
		Providers: ProviderConfig{
			GeminiModel:   "gemini-2.0-flash",
			Voice:         "Daniel",
			ManimBinary:   "manim",
			EnableManim:   false,
			MinKeywordLen: 3,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".videoagent", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
