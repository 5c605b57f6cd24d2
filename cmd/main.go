package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/nytproxy/internal/api"
	"github.com/bilgisen/nytproxy/internal/config"
	"github.com/bilgisen/nytproxy/internal/logger"
	"github.com/bilgisen/nytproxy/internal/nyt"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Refusing to start")
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.IsDevelopment(),
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().
		Strs("sections", cfg.TopSections).
		Dur("timeout", cfg.Timeout).
		Msg("Starting NYT proxy...")

	client := nyt.NewClient(cfg)
	defer func() {
		log.Info().Msg("Closing NYT client...")
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing NYT client")
		}
	}()

	app := api.NewApp(cfg, client)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
