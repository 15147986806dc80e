package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/healthday/events-api/internal/api"
	"github.com/healthday/events-api/internal/infrastructure/config"
	"github.com/healthday/events-api/internal/infrastructure/db/mongo"
	"github.com/healthday/events-api/internal/infrastructure/db/redis"
	"github.com/healthday/events-api/internal/infrastructure/mail"
	"github.com/healthday/events-api/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	reconcileInterval = 5 * time.Minute
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	e, services := api.NewRouter(cfg, db, rdb, log)

	// Mail delivery runs off the Redis outbox so SMTP failures never block
	// request handling.
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Pass,
		FromName: cfg.SMTP.FromName,
	})
	mailWorker := mail.NewWorker(redis.NewMailOutbox(rdb), sender, cfg.BaseURL, log)
	mailWorker.Start(ctx)

	// Periodic seat-counter reconciliation.
	go func() {
		ticker := time.NewTicker(reconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := services.Registrations.Reconcile(ctx); err != nil {
					log.Error().Err(err).Msg("seat reconciliation failed")
				}
			}
		}
	}()

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
