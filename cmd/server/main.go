package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/clients/brightdata"
	"github.com/tripscout/tripscout/internal/clients/gemini"
	"github.com/tripscout/tripscout/internal/config"
	"github.com/tripscout/tripscout/internal/database"
	"github.com/tripscout/tripscout/internal/events"
	"github.com/tripscout/tripscout/internal/modules/deals"
	"github.com/tripscout/tripscout/internal/modules/packing"
	"github.com/tripscout/tripscout/internal/modules/recommendations"
	"github.com/tripscout/tripscout/internal/modules/search"
	"github.com/tripscout/tripscout/internal/modules/sources"
	"github.com/tripscout/tripscout/internal/reliability"
	"github.com/tripscout/tripscout/internal/scheduler"
	"github.com/tripscout/tripscout/internal/server"
	"github.com/tripscout/tripscout/pkg/logger"
)

func main() {
	// Load configuration first so the log level follows it
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting TripScout")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	bus := events.NewBus(log)

	// Shared retrieval client; constructed once and injected everywhere
	bdClient := brightdata.New(cfg.BrightDataAPIKey, cfg.BrightDataZoneName, log)

	// Optional text-generation backend; nil disables enrichment
	var gen gemini.Generator
	if c := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, log); c != nil {
		gen = c
	}

	repo := search.NewRepository(db)
	packer := packing.New(gen, log)
	engine := recommendations.New(gen, log)
	analyzer := deals.New(log)

	orch := search.NewOrchestrator(repo, search.Sources{
		Flights: sources.NewFlights(bdClient, log),
		Hotels:  sources.NewHotels(bdClient, log),
		Weather: sources.NewWeather(bdClient, log),
		Events:  sources.NewEvents(bdClient, log),
	}, engine, bus, cfg.SourceTimeout, log)

	searchHandler := search.NewHandler(repo, orch, analyzer, packer, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	if err := registerJobs(sched, cfg, repo, db, bus, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:          cfg.Port,
		Log:           log,
		DB:            db,
		Config:        cfg,
		DevMode:       cfg.DevMode,
		SearchHandler: searchHandler,
		Bus:           bus,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	repo search.Repository,
	db *database.DB,
	bus *events.Bus,
	log zerolog.Logger,
) error {
	// Purge searches past their retention window, nightly
	err := sched.AddJob("0 3 * * *", "search-cleanup", func() {
		cutoff := time.Now().UTC().Add(-cfg.SearchRetention)
		removed, err := repo.DeleteSearchesBefore(cutoff)
		if err != nil {
			log.Error().Err(err).Msg("Search cleanup failed")
			return
		}
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("Search cleanup done")
		bus.Emit(events.CleanupCompleted, "", map[string]interface{}{
			"removed": removed,
		})
	})
	if err != nil {
		return err
	}

	// Nightly database snapshot, when backup storage is configured
	backup, err := reliability.NewBackupService(cfg, db, bus, log)
	if err != nil {
		return err
	}
	if backup != nil {
		err = sched.AddJob("30 3 * * *", "database-backup", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := backup.Backup(ctx); err != nil {
				log.Error().Err(err).Msg("Database backup failed")
			}
		})
		if err != nil {
			return err
		}
	}

	return nil
}
