package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bro/internal/di"
	"bro/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	cfg, err := env.LoadConfig(envService)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer container.Close()

	container.Logger.Info("starting bro task service",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"max_browsers", cfg.MaxConcurrentBrowsers,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- container.Server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		container.Logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Server.Shutdown(ctx); err != nil {
			container.Logger.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	case err := <-errChan:
		if err != nil {
			container.Logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
