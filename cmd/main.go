package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"eazymove/api"
	"eazymove/config"
	"eazymove/pkg/logger"
	"eazymove/pkg/notify"
	"eazymove/pkg/security"
	"eazymove/service"
	"eazymove/storage/postgres"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	// 3. Initialize Storage (Postgres + migrations)
	pgStore, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	// 4. Auth primitives
	tokens, err := security.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Error("Failed to initialize token manager", logger.Error(err))
		os.Exit(1)
	}
	hasher := security.NewPasswordHasher(cfg.BcryptCost)

	// 5. Notifiers: admin chat and event stream, both optional
	notifier := newNotifier(cfg, log)
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Warning("Failed to close notifier", logger.Error(err))
		}
	}()

	// 6. Services
	svc := service.New(pgStore, tokens, hasher, notifier, log)
	if err := svc.Auth().EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("Failed to seed admin account", logger.Error(err))
		os.Exit(1)
	}

	// 7. HTTP server
	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: api.NewRouter(svc, pgStore, log),
	}

	go func() {
		log.Info("EazyMove API is listening", logger.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", logger.Error(err))
			os.Exit(1)
		}
	}()

	// 8. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", logger.Error(err))
	}
	svc.Wait()
}

func newNotifier(cfg config.Config, log logger.ILogger) notify.Notifier {
	var notifiers []notify.Notifier

	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.AdminChatID)
		if err != nil {
			log.Warning("Telegram notifications disabled", logger.Error(err))
		} else {
			notifiers = append(notifiers, tg)
			log.Info("Telegram notifications enabled", logger.Int64("chat_id", cfg.AdminChatID))
		}
	}

	if cfg.KafkaEnabled() {
		notifiers = append(notifiers, notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info("Kafka events enabled", logger.String("topic", cfg.KafkaTopic))
	}

	return notify.NewMulti(notifiers...)
}
