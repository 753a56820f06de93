package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/coah80/hoist/internal/alerts"
	"github.com/coah80/hoist/internal/bot"
	"github.com/coah80/hoist/internal/config"
	"github.com/coah80/hoist/internal/middleware"
	"github.com/coah80/hoist/internal/server"
	"github.com/coah80/hoist/internal/services"
	"github.com/coah80/hoist/internal/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	util.InitLogger(cfg.Debug)
	logger := util.GetLogger("main")

	logger.Info().
		Str("version", config.Version).
		Str("download_dir", cfg.DownloadDir).
		Msg("starting hoist")

	util.CheckDependencies()
	middleware.StartRateLimitCleanup()

	store := services.NewTokenStore()
	executor := services.NewExecutor(services.NewYtdlpExtractor(), services.ExtractionOptions{
		CookiesFile:        cfg.CookiesFile,
		CookiesFromBrowser: cfg.BrowserCookies,
		RemoteComponents:   cfg.RemoteComponents,
		ProxyURLs:          cfg.ProxyURLs,
	}, cfg.DownloadDir)
	notifier := alerts.NewNotifier(cfg.AlertWebhookURL, cfg.AlertPingUserID)

	b, err := bot.New(cfg, store, executor, notifier)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating bot")
	}

	srv := server.New(cfg)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("public", cfg.PublicBaseURL()).Msg("file server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	if err := b.Start(); err != nil {
		logger.Fatal().Err(err).Msg("starting bot")
	}

	notifier.Started(cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("file server failed")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	notifier.Stopping()
	b.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
		srv.Close()
	}

	logger.Info().Msg("stopped")
}
