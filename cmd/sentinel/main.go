package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GrowthSentinel/internal/config"
	"GrowthSentinel/internal/notifier"
	"GrowthSentinel/internal/registry"
	"GrowthSentinel/internal/scheduler"
	"GrowthSentinel/internal/source"
	"GrowthSentinel/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] GrowthSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init data sources
	var events source.EventSource
	var transactions source.TransactionSource
	if cfg.DataSource.Mock {
		mock := &source.MockSource{
			Events: source.GenerateMockEvents(time.Now(), 60, 240),
		}
		events, transactions = mock, mock
	} else {
		rest := source.NewRESTSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
		events, transactions = rest, rest
	}
	log.Printf("[INFO] data source: %s", events.Name())

	// Init store
	var st store.Store
	sq, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite store failed, using in-memory store: %v", err)
		st = store.NewMemoryStore()
	} else {
		st = sq
	}
	defer st.Close()

	// Init entity registry
	reg, err := registry.NewManager(cfg.Registry.StateFile, cfg.Entities())
	if err != nil {
		log.Fatalf("[FATAL] init entity registry: %v", err)
	}

	// Init notifier
	var n notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[WARN] telegram not configured, notifications go to the process log")
		n = notifier.NewLogNotifier()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, events, transactions, reg, st, n, cfg.MaterializeThresholds())
	if err := sched.RegisterAll(cfg.Schedule.WeeklyCron, cfg.Schedule.MonthlyCron, cfg.Schedule.EvaluationCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing weekly task now")
		go sched.RunWeeklyNow()
	}

	log.Println("[INFO] GrowthSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] GrowthSentinel stopped")
}
