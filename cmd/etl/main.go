package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/costnav/healthcare-cost-navigator/internal/adapters/database"
	"github.com/costnav/healthcare-cost-navigator/internal/application/services"
	"github.com/costnav/healthcare-cost-navigator/internal/infrastructure/clients/postgres"
	"github.com/costnav/healthcare-cost-navigator/internal/infrastructure/observability"
	"github.com/costnav/healthcare-cost-navigator/pkg/config"
)

func main() {
	csvPath := flag.String("csv", "sample_prices_ny.csv", "path to the CMS inpatient charge CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Debug)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	ingestionAdapter := database.NewIngestionAdapter(pgClient)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ingestionService := services.NewIngestionService(ingestionAdapter, rng)

	ctx := log.Logger.WithContext(context.Background())
	log.Info().Str("csv", *csvPath).Msg("starting ingestion")

	stats, err := ingestionService.Run(ctx, *csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}

	log.Info().
		Int("records", stats.Records).
		Int("hospitals", stats.Hospitals).
		Int("procedures", stats.Procedures).
		Int("ratings", stats.Ratings).
		Bool("used_sample", stats.UsedSample).
		Msg("ingestion completed")
}
