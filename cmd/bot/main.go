package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hwbot/internal/app"
	"hwbot/internal/config"
	"hwbot/pkg/logx"
)

func main() {
	var settingsPath string
	flag.StringVar(&settingsPath, "config", "", "optional path to settings yaml")
	flag.Parse()

	log := logx.NewConsole("debug")

	// Startup precondition: all credentials must be present before any
	// network call is made.
	secrets := config.FromEnv()
	if missing := secrets.Missing(); len(missing) > 0 {
		for _, name := range missing {
			log.Critical("missing required environment variable", logx.String("name", name))
		}
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(secrets, settingsPath)
	if err != nil {
		log.Critical("startup failed", logx.Err(err))
		os.Exit(1)
	}

	if err := a.Start(ctx); err != nil {
		log.Critical("start failed", logx.Err(err))
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = a.Stop(stopCtx)
}
