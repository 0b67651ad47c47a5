package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PushpenderIndia/VideoAgent/internal/animate"
	"github.com/PushpenderIndia/VideoAgent/internal/assets"
	"github.com/PushpenderIndia/VideoAgent/internal/compile"
	"github.com/PushpenderIndia/VideoAgent/internal/config"
	"github.com/PushpenderIndia/VideoAgent/internal/ffmpeg"
	"github.com/PushpenderIndia/VideoAgent/internal/logging"
	"github.com/PushpenderIndia/VideoAgent/internal/pipeline"
	"github.com/PushpenderIndia/VideoAgent/internal/script"
	"github.com/PushpenderIndia/VideoAgent/internal/stock"
	"github.com/PushpenderIndia/VideoAgent/internal/system"
	"github.com/PushpenderIndia/VideoAgent/internal/voice"
	"github.com/PushpenderIndia/VideoAgent/pkg/util"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	verbose bool
	output  string
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "videoagent",
	Short: "videoagent - topic-to-video compilation pipeline",
	Long:  "Generates a narrated, captioned, stock-footage video for a topic: script, narration, visuals, transitions, final encode.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	generateCmd.Flags().StringVarP(&output, "output", "o", "", "output video path (default: <output_dir>/<topic>.mp4)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a complete video for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		topic := args[0]

		driver, err := buildDriver(cfg)
		if err != nil {
			return err
		}

		outPath := output
		if outPath == "" {
			outPath = filepath.Join(cfg.OutputDir, util.SanitizeFilename(topic)+".mp4")
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return err
		}

		res, err := driver.Run(cmd.Context(), topic, outPath)
		if err != nil {
			return err
		}

		log.Info().
			Str("output", res.FinalVideo).
			Float64("duration_sec", res.TotalDuration).
			Int("scenes", res.SceneCount).
			Msg("video generated")
		return nil
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script [topic]",
	Short: "Generate and print the scene script as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		gemini := script.NewGeminiClient(log.Logger, os.Getenv("GEMINI_API_KEY"), cfg.Providers.GeminiModel)
		gen := script.NewGeminiGenerator(log.Logger, gemini)

		scr, err := gen.GenerateScript(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(scr, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check external tools and host resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if info, err := system.Probe(); err == nil {
			fmt.Printf("host: %d cores, %d MB total, %d MB available\n",
				info.LogicalCores, info.TotalMB, info.AvailableMB)
			fmt.Printf("encoder threads: %d\n", system.EncoderThreads(cfg.FFmpeg.Threads))
		}

		ok := true
		for _, tool := range system.CheckTools(cfg.Providers.ManimBinary) {
			mark := "ok"
			if !tool.Found {
				mark = "missing"
				if tool.Required {
					ok = false
				}
			}
			fmt.Printf("%-10s %-8s %s\n", tool.Name, mark, tool.Hint)
		}

		if os.Getenv("GEMINI_API_KEY") == "" {
			fmt.Println("GEMINI_API_KEY not set: script generation will fail")
		}
		if os.Getenv("ELEVENLABS_API_KEY") == "" {
			fmt.Println("ELEVENLABS_API_KEY not set: narration falls back to edge-tts")
		}

		if !ok {
			return fmt.Errorf("required tools missing")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if err := cfg.Save("config.yaml"); err != nil {
			return err
		}
		log.Info().Str("path", "config.yaml").Msg("config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// buildDriver wires the full pipeline from configuration and environment.
func buildDriver(cfg *config.Config) (*pipeline.Driver, error) {
	exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, system.EncoderThreads(cfg.FFmpeg.Threads))
	if err != nil {
		return nil, err
	}

	settings := ffmpeg.EncodeSettings{
		Width:      cfg.Video.Width,
		Height:     cfg.Video.Height,
		FPS:        cfg.Video.FPS,
		VideoCodec: cfg.Video.VideoCodec,
		AudioCodec: cfg.Video.AudioCodec,
		CRF:        cfg.Video.CRF,
		Preset:     cfg.Video.Preset,
	}
	tk := compile.NewToolkit(exec, settings)

	workDir := filepath.Join(cfg.TempDir, "scenes")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, err
	}

	gemini := script.NewGeminiClient(log.Logger, os.Getenv("GEMINI_API_KEY"), cfg.Providers.GeminiModel)
	scripter := script.NewGeminiGenerator(log.Logger, gemini)
	synth := voice.NewElevenLabs(log.Logger, exec, os.Getenv("ELEVENLABS_API_KEY"), cfg.Providers.Voice)

	keywords := stock.NewKeywordGenerator(log.Logger, gemini, cfg.Providers.MinKeywordLen)
	footage := stock.NewGettySearcher(log.Logger, keywords, cfg.Download.UserAgent, cfg.Download.MaxResults)

	var animator animate.Generator
	if cfg.Providers.EnableManim {
		animator = animate.NewManimGenerator(log.Logger, gemini, cfg.Providers.ManimBinary, filepath.Join(cfg.TempDir, "manim"))
	}

	acquirer := assets.NewAcquirer(log.Logger, exec,
		filepath.Join(cfg.TempDir, "downloads"),
		cfg.Download.MaxSizeMB, cfg.Download.Timeout, cfg.Download.UserAgent)

	reconciler := compile.NewReconciler(log.Logger, tk)
	captions := compile.NewCompositor(log.Logger, tk, cfg.Captions, cfg.Video.Width, cfg.Video.Height)
	assembler := compile.NewAssembler(log.Logger, tk, acquirer, footage, reconciler, captions, workDir)
	selector := compile.NewSelector(log.Logger, cfg.Transitions, 0)
	timeline := compile.NewTimelineCompiler(log.Logger, tk, cfg.Video, cfg.Transitions.EffectSec, workDir)

	return pipeline.New(log.Logger, cfg, scripter, synth, footage, animator, acquirer, assembler, selector, timeline), nil
}
