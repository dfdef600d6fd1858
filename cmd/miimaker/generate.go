package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"miimaker/config"
	"miimaker/internal/clients/generator"
	"miimaker/internal/maker"
	"miimaker/internal/mediator"
	"miimaker/internal/preview"

	"github.com/TypeTerrors/gonfig"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type generateOptions struct {
	configFile string
	endpoint   string
	out        string
	timeout    time.Duration
	summary    bool
	logLevel   string
}

// runSummary is printed as YAML with --summary.
type runSummary struct {
	Input    string  `yaml:"input"`
	Bytes    int64   `yaml:"bytes"`
	Endpoint string  `yaml:"endpoint"`
	Phase    string  `yaml:"phase"`
	Progress float64 `yaml:"progress"`
	Error    string  `yaml:"error,omitempty"`
	Kind     string  `yaml:"errorKind,omitempty"`
	Output   string  `yaml:"output,omitempty"`
	Duration string  `yaml:"duration"`
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <photo>",
		Short: "Generate an avatar from a photo",
		Example: `  # Use the default local endpoint
  miimaker generate me.jpg

  # Point at a deployed endpoint and save elsewhere
  miimaker generate me.jpg --endpoint https://example.com/api/generate-mii -o avatar.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := mediator.ConfigureLogging(cfg.Log); err != nil {
				return err
			}
			return runGenerate(cmd, args[0], cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file (same format as the server)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", os.Getenv("MII_ENDPOINT"), "Avatar generation endpoint")
	cmd.Flags().StringVarP(&opts.out, "out", "o", maker.DownloadName, "Where to write the generated PNG")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default from config)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a YAML run summary to stdout")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

func loadConfig(opts generateOptions) (config.Config, error) {
	var cfg config.Config
	if opts.configFile != "" {
		loaded, err := gonfig.Load[config.Config](
			gonfig.WithConfigFile(opts.configFile),
			gonfig.WithDotenv(".env"),
		)
		if err != nil {
			return cfg, fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	if opts.endpoint != "" {
		cfg.Generator.Endpoint = opts.endpoint
	}
	if opts.timeout > 0 {
		cfg.Generator.Timeout = opts.timeout
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg.WithDefaults(), nil
}

func readUpload(path string) (maker.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return maker.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return maker.Upload{}, fmt.Errorf("error reading %s: %w", path, err)
	}

	return maker.Upload{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(filepath.Ext(path)),
		Data:      data,
	}, nil
}

func runGenerate(cmd *cobra.Command, path string, cfg config.Config, opts generateOptions) error {
	logger := log.With("component", "cli")
	start := time.Now()

	upload, err := readUpload(path)
	if err != nil {
		return err
	}

	client := generator.NewClient(cfg.Generator)
	sessOpts := maker.OptionsFromConfig(cfg.Upload)
	sessOpts.RevealDelay = 0
	lastLogged := -10.0
	sessOpts.OnChange = func(s maker.Snapshot) {
		if s.Phase == maker.PhaseLoading && s.Progress-lastLogged >= 10 {
			lastLogged = s.Progress
			logger.Info("generating", "progress", fmt.Sprintf("%.0f%%", s.Progress))
		}
	}

	session := maker.NewSession("cli", client, preview.NewStore(), sessOpts)
	defer session.Close()

	summary := runSummary{
		Input:    path,
		Bytes:    int64(len(upload.Data)),
		Endpoint: client.Endpoint(),
	}
	defer func() {
		if !opts.summary {
			return
		}
		summary.Duration = time.Since(start).Round(time.Millisecond).String()
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		_ = enc.Encode(summary)
		_ = enc.Close()
	}()

	if err := session.Select(upload); err != nil {
		summary.Phase = maker.PhaseError.String()
		summary.Error = err.Error()
		summary.Kind = maker.KindValidation.String()
		return err
	}

	if err := session.Generate(cmd.Context()); err != nil {
		return err
	}

	snap := session.Snapshot()
	summary.Phase = snap.Phase.String()
	summary.Progress = snap.Progress
	if snap.Err != nil {
		summary.Error = snap.Err.Message
		summary.Kind = snap.Err.Kind.String()
		logger.Error("generation failed", "kind", snap.Err.Kind, "err", errors.Unwrap(snap.Err))
		return snap.Err
	}

	name, data, err := session.Download()
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", out, err)
	}

	summary.Output = out
	logger.Info("avatar saved", "path", out, "bytes", len(data))
	return nil
}
