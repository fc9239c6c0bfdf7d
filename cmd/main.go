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

	"github.com/Dosada05/tournament-tracker/config"
	"github.com/Dosada05/tournament-tracker/db"
	"github.com/Dosada05/tournament-tracker/events"
	"github.com/Dosada05/tournament-tracker/handlers"
	"github.com/Dosada05/tournament-tracker/live"
	"github.com/Dosada05/tournament-tracker/middleware"
	"github.com/Dosada05/tournament-tracker/repositories"
	"github.com/Dosada05/tournament-tracker/routes"
	"github.com/Dosada05/tournament-tracker/services"
	"github.com/Dosada05/tournament-tracker/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := run(logger); err != nil {
		logger.Error("application exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("database connection established")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)

	var notifiers []services.TournamentNotifier

	var hub *live.Hub
	var liveTokens *middleware.LiveTokenIssuer
	if cfg.LiveUpdatesEnabled() {
		hub = live.NewHub(logger)
		liveTokens = middleware.NewLiveTokenIssuer(cfg.LiveTokenSecret, cfg.LiveTokenTTL)
		notifiers = append(notifiers, hub)
		logger.Info("live updates enabled")
	}

	if cfg.NatsURL != "" {
		natsConn, err := events.Connect(events.NatsConfig{URL: cfg.NatsURL, Token: cfg.NatsToken})
		if err != nil {
			return err
		}
		defer natsConn.Close()
		notifiers = append(notifiers, events.NewNATSPublisher(natsConn, cfg.NatsSubjectPrefix, logger))
		logger.Info("NATS connection established", slog.String("url", cfg.NatsURL))
	}

	var archiver services.ResultArchiver
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Config)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archiver = storage.NewResultArchiver(uploader, logger)
		logger.Info("Cloudflare R2 result archive enabled")
	}

	tournamentService := services.NewTournamentService(tournamentRepo, archiver, logger, notifiers...)

	// Типизированный nil-указатель нельзя класть в интерфейс
	var tokenIssuer handlers.LiveTokenIssuer
	var wsHandler *handlers.WebSocketHandler
	if liveTokens != nil {
		tokenIssuer = liveTokens
		wsHandler = handlers.NewWebSocketHandler(hub, liveTokens, cfg.AllowedOrigins, logger)
	}
	actionHandler := handlers.NewActionHandler(tournamentService, tokenIssuer, cfg.ExposeErrorDetails, logger)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Options{
		ProxySecret:    cfg.ProxySecret,
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
	}, actionHandler, wsHandler, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gCtx := errgroup.WithContext(ctx)
	if hub != nil {
		g.Go(func() error {
			return hub.Run(gCtx)
		})
	}
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
