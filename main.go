package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/andrewpaige1/lego-catalog/config"
	"github.com/andrewpaige1/lego-catalog/handlers"
	"github.com/andrewpaige1/lego-catalog/logger"
	"github.com/andrewpaige1/lego-catalog/store"
	"github.com/andrewpaige1/lego-catalog/views"
)

var version = "dev"

func init() {
	// Load .env file if not in production environment
	if os.Getenv("LEGO_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr := logger.New(cfg.Log.Level, cfg.Env)

	db, err := store.Open(cfg.Database, logr)
	if err != nil {
		logr.Fatal().Err(err).Msg("unable to start server")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logr.Error().Err(err).Msg("failed to close database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureSchema(ctx); err != nil {
		logr.Fatal().Err(err).Msg("unable to start server")
	}

	renderer, err := views.New()
	if err != nil {
		logr.Fatal().Err(err).Msg("failed to parse templates")
	}
	if cfg.Auth.Enabled() {
		logr.Info().Str("username", cfg.Auth.Username).Msg("editor login enabled")
	}

	h := handlers.New(handlers.Options{
		Catalog:      db,
		Views:        renderer,
		Auth:         cfg.Auth,
		SecureCookie: cfg.CookieSecure(),
		Version:      version,
		Logger:       logr,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: cfg.Auth.Enabled(),
		MaxAge:           86400,
	}).Handler(h.Routes())

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logr.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logr.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Error().Err(err).Msg("server failed")
		return
	}
	<-done
}
