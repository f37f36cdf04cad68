package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/web"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("flashdeck server starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("cors_origins=%v", cfg.CORSOrigins)
	log.Debug("max_upload_bytes=%d", cfg.MaxUploadBytes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cfg, log)
	if err != nil {
		log.Error("server error: %v", err)
	}

	log.Info("===========================================")
	log.Info("flashdeck server stopped")
	log.Info("===========================================")
	if err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	tmpl, err := api.LoadTemplates(web.FS)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	cards := sqlite.NewCardRepository(database.DB)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	authService := services.NewAuthService(sqlite.NewUserRepository(database.DB), tokens)

	if cfg.AdminUsername != "" {
		created, err := authService.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin user: %w", err)
		}
		if created {
			log.Info("created user %q", cfg.AdminUsername)
		}
	}

	srv := &api.Server{
		CardService:    services.NewCardService(cards, sqlite.NewReviewRepository(database.DB)),
		ReviewService:  services.NewReviewService(cards),
		StatsService:   services.NewStatsService(cards),
		AuthService:    authService,
		DB:             database,
		Templates:      tmpl,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		SessionTTL:     cfg.SessionTTL,
		CookieSecure:   cfg.CookieSecure,
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          stdlog.New(log.WithPrefix("http").Writer(logger.ERROR), "", 0),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
