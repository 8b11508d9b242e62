package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"jamesfarrell.me/ad-skipper/internal/adspan"
	"jamesfarrell.me/ad-skipper/internal/api"
	"jamesfarrell.me/ad-skipper/internal/config"
	"jamesfarrell.me/ad-skipper/internal/inference"
	"jamesfarrell.me/ad-skipper/internal/logger"
	"jamesfarrell.me/ad-skipper/internal/matcher"
	"jamesfarrell.me/ad-skipper/internal/transcript"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	log := logger.New(cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		log.WithError(envErr).Debug("no .env file loaded")
	}
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	chat := inference.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	youtube := transcript.NewYouTube(transcript.Config{
		Languages: cfg.Transcript.Languages,
		Timeout:   cfg.Transcript.Timeout.Duration,
	})
	svc := adspan.NewService(
		youtube,
		inference.NewClient(chat, cfg.Model),
		matcher.New(cfg.Matching.Threshold),
		cfg.Matching.SkipLeadSeconds,
		log,
	)

	router := api.NewRouter(svc, log, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		ServiceAPIKey:  cfg.ServiceAPIKey,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("error shutting down server")
		}
	}()

	log.WithField("addr", cfg.ListenAddr).WithField("origins", cfg.AllowedOrigins).Info("starting HTTP server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("HTTP server error")
	}
	log.Info("server stopped")
}
