package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchwerk/tournament-scheduler/config"
	"github.com/matchwerk/tournament-scheduler/db"
	"github.com/matchwerk/tournament-scheduler/handlers"
	"github.com/matchwerk/tournament-scheduler/repositories"
	"github.com/matchwerk/tournament-scheduler/routes"
	"github.com/matchwerk/tournament-scheduler/schedule"
	"github.com/matchwerk/tournament-scheduler/services"
	"github.com/matchwerk/tournament-scheduler/storage"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Snapshot storage is optional. Without R2 credentials the export
	// endpoint answers 501 and everything else works normally.
	var uploader storage.SnapshotUploader
	if cfg.SnapshotStorageConfigured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize snapshot storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("snapshot storage initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("snapshot storage not configured, exports disabled")
	}

	hub := schedule.NewHub(logger)
	go hub.Run()

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	orchestrator := schedule.NewOrchestrator(logger)

	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, teamRepo, matchRepo, logger)
	teamService := services.NewTeamService(tournamentRepo, teamRepo, logger)
	scheduleService := services.NewScheduleService(dbConn, tournamentRepo, teamRepo, matchRepo, orchestrator, hub, logger)
	matchService := services.NewMatchService(dbConn, tournamentRepo, teamRepo, matchRepo, hub, logger)
	standingsService := services.NewStandingsService(tournamentRepo, teamRepo, matchRepo, logger)
	playoffService := services.NewPlayoffService(dbConn, tournamentRepo, teamRepo, matchRepo, hub, logger)
	snapshotService := services.NewSnapshotService(tournamentRepo, teamRepo, matchRepo, uploader, logger)

	router := routes.SetupRoutes(routes.Handlers{
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Team:       handlers.NewTeamHandler(teamService),
		Schedule:   handlers.NewScheduleHandler(scheduleService),
		Match:      handlers.NewMatchHandler(matchService),
		Standings:  handlers.NewStandingsHandler(standingsService),
		Playoff:    handlers.NewPlayoffHandler(playoffService),
		Snapshot:   handlers.NewSnapshotHandler(snapshotService),
		WebSocket:  handlers.NewWebSocketHandler(hub, tournamentService, logger),
	}, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
