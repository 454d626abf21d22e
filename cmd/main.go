package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaymanhq/kayman/internal/auth"
	"github.com/kaymanhq/kayman/internal/config"
	"github.com/kaymanhq/kayman/internal/discord"
	"github.com/kaymanhq/kayman/internal/ledger"
	"github.com/kaymanhq/kayman/internal/logger"
	"github.com/kaymanhq/kayman/internal/server"
	"github.com/kaymanhq/kayman/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.Pretty})
	logger.SetGlobalLogger(log)

	var db *storage.Database
	switch cfg.DBDriver {
	case "postgres":
		db, err = storage.NewPostgresDatabase(cfg.PostgresDSN())
	default:
		db, err = storage.NewDatabase(cfg.DBPath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize the database")
	}

	authenticator, err := auth.New(cfg.SecretKey, time.Duration(cfg.TokenExpiryMinutes)*time.Minute, cfg.ClientsPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth")
	}

	ledgerSvc := ledger.NewService(db, log)

	var notifier server.PaymentNotifier
	var bot *discord.Bot
	if cfg.DiscordBotToken != "" {
		bot, err = discord.NewBot(cfg.DiscordBotToken, cfg.DiscordChannelID, db, ledgerSvc, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize the discord bot")
		}
		if err := bot.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start the discord bot")
		}
		notifier = bot
		log.Info().Msg("discord bot is running")
	}

	srv := server.New(server.Config{
		Log:      log,
		DB:       db,
		Ledger:   ledgerSvc,
		Auth:     authenticator,
		Notifier: notifier,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}

	if bot != nil {
		bot.Stop()
	}
	log.Info().Msg("server stopped")
}
