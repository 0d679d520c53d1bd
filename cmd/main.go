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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/smashpoint/badminton-league/config"
	"github.com/smashpoint/badminton-league/db"
	"github.com/smashpoint/badminton-league/handlers"
	"github.com/smashpoint/badminton-league/repositories"
	api "github.com/smashpoint/badminton-league/routes"
	"github.com/smashpoint/badminton-league/scoring"
	"github.com/smashpoint/badminton-league/services"
	"github.com/smashpoint/badminton-league/storage"
)

// sweeperInterval controls how often stale scheduled matches are cancelled.
const sweeperInterval = 1 * time.Hour

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

	// Avatar uploads go to Cloudflare R2; without credentials the server
	// runs fine, just without avatars.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 not configured, avatar uploads disabled")
	}

	wsHub := scoring.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	setRepo := repositories.NewPostgresSetRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	commentRepo := repositories.NewPostgresCommentRepository(dbConn)
	availabilityRepo := repositories.NewPostgresAvailabilityRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(dbConn, teamRepo, playerRepo, userRepo)
	playerService := services.NewPlayerService(playerRepo, teamRepo, uploader)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		setRepo,
		teamRepo,
		playerRepo,
		venueRepo,
		commentRepo,
		uploader,
		logger,
	)
	scoringService := services.NewScoringService(
		dbConn,
		matchRepo,
		setRepo,
		teamRepo,
		matchService,
		wsHub,
		logger,
	)
	statsService := services.NewStatsService(teamRepo, playerRepo, matchRepo, setRepo, uploader)
	venueService := services.NewVenueService(venueRepo, teamRepo)
	commentService := services.NewCommentService(commentRepo, matchRepo, teamRepo, userRepo)
	availabilityService := services.NewAvailabilityService(availabilityRepo, playerRepo, teamRepo)
	dashboardService := services.NewDashboardService(teamRepo, matchRepo, playerRepo)
	logger.Info("services initialized")

	// Sweeper: cancel matches that stayed SCHEDULED long past their slot.
	go func() {
		ticker := time.NewTicker(sweeperInterval)
		defer ticker.Stop()
		logger.Info("stale match sweeper started", slog.Duration("interval", sweeperInterval))

		if err := matchService.AutoCancelStaleMatches(context.Background()); err != nil {
			logger.Error("sweeper: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := matchService.AutoCancelStaleMatches(context.Background()); err != nil {
				logger.Error("sweeper: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	matchHandler := handlers.NewMatchHandler(matchService, scoringService, commentService)
	venueHandler := handlers.NewVenueHandler(venueService)
	statsHandler := handlers.NewStatsHandler(statsService, dashboardService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		teamHandler,
		playerHandler,
		matchHandler,
		venueHandler,
		statsHandler,
		availabilityHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

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
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
