package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"eudamed_scraper/internal/app"
	"eudamed_scraper/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()
	log.Debug().Msg("Starting application")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := app.LoadSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid settings")
	}

	tuning, err := config.LoadTuning(settings.TuningFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", settings.TuningFile).Msg("Failed to load tuning file")
	}

	summary, err := app.Run(ctx, settings, tuning)
	if err != nil {
		log.Fatal().
			Err(err).
			Int("pages", summary.Pages).
			Int("records", summary.Records).
			Msg("Scrape failed")
	}

	log.Info().
		Int("pages", summary.Pages).
		Int("records", summary.Records).
		Ints("dropped_pages", summary.DroppedPages).
		Str("outcome", string(summary.Outcome)).
		Str("output", settings.OutputPath).
		Msg("Scrape complete")
}
