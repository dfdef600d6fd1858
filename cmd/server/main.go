package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"miimaker/config"
	"miimaker/internal/mediator"

	"github.com/TypeTerrors/gonfig"
	"github.com/charmbracelet/log"
)

func main() {

	cfg, err := gonfig.Load[config.Config](
		gonfig.WithConfigFile("config/config.yaml"),
		gonfig.WithDotenv(".env"), // ignored if missing
		gonfig.WithStrict(),       // fail if ${VAR} has no value/default
	)
	if err != nil {
		log.Fatal("loading config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := mediator.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal("creating app", "err", err)
	}
	defer app.Shutdown()

	if err := app.Start(); err != nil {
		log.Error("server stopped", "err", err)
	}
}
