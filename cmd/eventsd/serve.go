package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"eventcore/internal/adapters/discord"
	"eventcore/internal/adapters/httpapi"
	"eventcore/internal/application"
	"eventcore/internal/config"
	"eventcore/internal/infrastructure/clock"
	"eventcore/internal/infrastructure/database"
	"eventcore/internal/infrastructure/i18n"
	"eventcore/internal/infrastructure/memory"
	"eventcore/internal/infrastructure/metrics"
	"eventcore/internal/infrastructure/notify"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and notification hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := slog.Default()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	deps := application.Deps{
		Clock:    clock.System{},
		Location: cfg.Location,
		Metrics:  m,
		Logger:   logger,
	}

	switch cfg.Store {
	case config.StorePostgres:
		if cfg.Migrations {
			if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
				return err
			}
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		deps.Store = database.NewEventRepository(pool)
		deps.Ledger = database.NewLedgerRepository(pool)
		deps.Users = database.NewUserDirectory(pool)
	case config.StoreMemory:
		ledger := memory.NewLedger()
		deps.Store = memory.NewEventStore(ledger)
		deps.Ledger = ledger
		deps.Users = memory.NewPermissiveUserDirectory()
		logger.Warn("using in-memory store, data is lost on exit")
	}

	hub := notify.NewHub(
		notify.WithQueueSize(cfg.NotifyQueueSize),
		notify.WithLogger(logger),
		notify.WithMetrics(m),
	)
	deps.Notifier = hub
	translator := i18n.NewTranslator(cfg.DefaultLocale, logger)

	events := application.NewEventService(deps)
	participants := application.NewParticipantService(deps)

	var wg sync.WaitGroup
	goRun := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	goRun(func() { hub.Run(ctx) })

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		relay := notify.NewRelay(client, cfg.RedisChannel, hub, logger)
		hub.Connect(relay)
		goRun(func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("relay stopped", "error", err)
			}
		})
	}

	if cfg.DiscordEnabled() {
		bot, err := discord.NewBot(cfg.DiscordToken, cfg.DiscordChannel, events, translator, cfg.DefaultLocale, cfg.Location, logger)
		if err != nil {
			return err
		}
		hub.Connect(bot.Observer())
		goRun(func() {
			if err := bot.Run(ctx); err != nil {
				hub.Disconnect(bot.Observer().ID())
				logger.Error("discord bot stopped", "error", err)
			}
		})
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Events:       events,
		Participants: participants,
		Hub:          hub,
		Translator:   translator,
		JWTSecret:    []byte(cfg.JWTSecret),
		Gatherer:     reg,
		Logger:       logger,
	})
	err := srv.ListenAndServe(ctx, cfg.HTTPAddr, cfg.ShutdownTimeout)
	cancel()
	wg.Wait()
	return err
}
