package mediator

import (
	"context"
	"fmt"
	"strings"

	"miimaker/config"
	"miimaker/internal/clients/generator"
	"miimaker/internal/services"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type App struct {
	api      *services.Api
	sessions *services.Registry
	ctx      context.Context
	cancel   context.CancelFunc
	// settings
	Config config.Config
}

func NewApp(parent context.Context, cfg config.Config) (*App, error) {
	cfg = cfg.WithDefaults()

	if err := ConfigureLogging(cfg.Log); err != nil {
		return nil, fmt.Errorf("error creating newapp: %w", err)
	}

	ctx, cancel := context.WithCancel(parent)
	gen := generator.NewClient(cfg.Generator)
	sessions := services.NewRegistry(cfg.Sessions)
	api := services.NewApi(ctx, gen, sessions, cfg)

	log.Info("generator configured", "endpoint", gen.Endpoint(), "timeout", cfg.Generator.Timeout.String())

	return &App{
		api:      api,
		sessions: sessions,
		ctx:      ctx,
		cancel:   cancel,
		Config:   cfg,
	}, nil
}

// Start serves the API and sweeps idle sessions until ctx is cancelled or
// the listener fails.
func (a *App) Start() error {
	g, ctx := errgroup.WithContext(a.ctx)

	g.Go(func() error {
		return a.api.Start()
	})
	g.Go(func() error {
		return a.sessions.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return a.api.Shutdown()
	})

	return g.Wait()
}

func (a *App) Shutdown() {
	a.cancel()
	a.sessions.Shutdown()
}

func ConfigureLogging(cfg config.LogConfig) error {
	if cfg.Level != "" {
		lvl, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		log.SetLevel(lvl)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		log.SetFormatter(log.TextFormatter)
	case "json":
		log.SetFormatter(log.JSONFormatter)
	case "logfmt":
		log.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("invalid log format %q", cfg.Format)
	}
	log.SetReportTimestamp(true)
	return nil
}
