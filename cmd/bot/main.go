package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/korjavin/whatsforlunch/pkg/config"
	"github.com/korjavin/whatsforlunch/pkg/logger"
	"github.com/korjavin/whatsforlunch/pkg/lunch"
	"github.com/korjavin/whatsforlunch/pkg/lunchbot"
	"github.com/korjavin/whatsforlunch/pkg/lunchdata"
	"github.com/korjavin/whatsforlunch/pkg/messages"
	"github.com/korjavin/whatsforlunch/pkg/openai"
	"github.com/korjavin/whatsforlunch/pkg/picker"
	"github.com/korjavin/whatsforlunch/pkg/scheduler"
	"github.com/korjavin/whatsforlunch/pkg/state"
	"github.com/korjavin/whatsforlunch/pkg/storage"
	"github.com/korjavin/whatsforlunch/pkg/telegram"
)

func main() {
	if err := run(); err != nil {
		logger.Global.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	log := logger.Global
	log.Info("Starting WhatsForLunch bot...")

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)
	if err := cfg.RequireBot(); err != nil {
		return err
	}

	// Initialize storage
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	// Start BadgerDB garbage collection
	store.StartGCRoutine(10 * time.Minute)

	// Initialize services
	lunchService := lunch.New(lunchdata.New(store), picker.New(cfg.AvoidRecent))
	defer lunchService.Wait()

	var generator messages.Generator
	if cfg.OpenAIAPIKey != "" {
		generator = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIAPIBase, cfg.OpenAIModel)
	} else {
		log.Info("OPENAI_API_KEY not set, using built-in messages")
	}
	messageService := messages.New(generator)

	// Initialize Telegram bot
	bot, err := telegram.New(cfg.BotToken)
	if err != nil {
		return err
	}

	handlers := lunchbot.New(bot, lunchService, messageService, state.New())
	router := telegram.NewRouter()
	handlers.Register(router)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.LunchChatID != 0 {
		sched := scheduler.New(handlers, cfg.LunchChatID, cfg.LunchHour)
		sched.Start(ctx)
		defer sched.Stop()
	}

	log.Info("Bot is now running. Press CTRL-C to exit.")
	if err := bot.Start(ctx, router); err != nil {
		return err
	}

	log.Info("Shutting down...")
	return nil
}
