// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-profile-bridge/internal/config"
	"telegram-profile-bridge/internal/domain/ports/adapter"
	"telegram-profile-bridge/internal/infra/api"
	"telegram-profile-bridge/internal/infra/logging"
	"telegram-profile-bridge/internal/infra/memory"
	"telegram-profile-bridge/internal/infra/metrics"
	"telegram-profile-bridge/internal/infra/pinata"
	red "telegram-profile-bridge/internal/infra/redis"
	"telegram-profile-bridge/internal/infra/scheduler"
	"telegram-profile-bridge/internal/infra/telegram"
	"telegram-profile-bridge/internal/usecase"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted secrets)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Pinata ----
	cred, err := pinata.InspectCredential(cfg.Pinata.JWT)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("pinata credential unusable; uploads will fail")
	case cred.Expired(time.Now()):
		logger.Warn().Time("expired_at", cred.ExpiresAt).Msg("pinata jwt has expired; uploads will fail")
	default:
		logger.Info().
			Str("subject", cred.Subject).
			Str("jwt", logging.Redact(cfg.Pinata.JWT, cfg.Runtime.Dev)).
			Msg("pinata credential loaded")
	}
	var pins adapter.PinningService = pinata.NewClient(pinata.Options{
		JWT:           cfg.Pinata.JWT,
		APIURL:        cfg.Pinata.APIURL,
		GatewayURL:    cfg.Pinata.GatewayURL,
		FetchTimeout:  cfg.Pinata.FetchTimeout,
		UploadTimeout: cfg.Pinata.UploadTimeout,
	})

	// ---- Redis (optional gateway cache) ----
	if cfg.Redis.URL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rc, err := red.NewClient(pingCtx, &cfg.Redis)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; gateway cache disabled")
		} else {
			defer rc.Close()
			pins = red.NewPinCacheDecorator(pins, rc, cfg.Redis.TTL, logger)
			logger.Info().Dur("ttl", cfg.Redis.TTL).Msg("gateway cache enabled")
		}
	}

	// ---- Telegram (optional getChat) ----
	var chats adapter.TelegramChatAdapter = telegram.NewNoopChatAdapter()
	if cfg.Bot.Token != "" {
		cc, err := telegram.NewChatClient(&cfg.Bot, &http.Client{Timeout: 15 * time.Second})
		if err != nil {
			logger.Warn().Err(err).Msg("telegram bot unavailable; chat lookup disabled")
		} else {
			chats = cc
			logger.Info().Str("bot", cc.BotUsername()).Msg("telegram bot authorized")
		}
	}

	// ---- Use cases ----
	repo := memory.NewProfileRepo()
	profileUC := usecase.NewProfileUseCase(repo, logger)
	notifUC := usecase.NewNotificationUseCase(repo, logger)
	storageUC := usecase.NewStorageUseCase(pins, logger)
	chatUC := usecase.NewChatUseCase(chats, logger)

	// ---- Store stats (profiles gauge) ----
	stats := scheduler.NewScheduler(30*time.Second, scheduler.NewStoreStatsJob(repo, logger), logger)
	stats.Start(ctx)
	defer stats.Stop()

	// ---- HTTP ----
	opts := api.RouterOptions{
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		CSP:            cfg.HTTP.CSP,
		BodyLimitBytes: cfg.HTTP.BodyLimitBytes,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	}
	if cfg.Metrics.IsEnabled() {
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = promhttp.Handler()
	}
	h := api.NewHandler(profileUC, notifUC, storageUC, chatUC, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           api.NewRouter(h, opts, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// ---- Graceful shutdown ----
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested")
	case err := <-errc:
		if err != nil {
			logger.Error().Err(err).Msg("http server error")
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	logger.Info().Msg("stopped")
}
