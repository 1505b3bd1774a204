package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/engine"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/position"
	"TrendSentinel/internal/scheduler"
	"TrendSentinel/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TrendSentinel starting...")

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

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Exchange == "okx" {
		fetcher = collector.NewOKXFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewBinanceFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s (%s %s)", fetcher.Name(), cfg.DataSource.Symbol, cfg.DataSource.Interval)

	// Init collector
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Interval)

	// Init signal engine
	params, err := cfg.EngineParams()
	if err != nil {
		log.Fatalf("[FATAL] engine params: %v", err)
	}
	eng, err := engine.New(params)
	if err != nil {
		log.Fatalf("[FATAL] init engine: %v", err)
	}
	log.Printf("[INFO] engine: channel=%s length=%d key=%.2f", params.ChannelType, params.ChannelLength, params.UtBotKey)

	// Init position tracker
	pos, err := position.NewManager(cfg.Position.StateFile, cfg.DataSource.Symbol)
	if err != nil {
		log.Fatalf("[FATAL] init position tracker: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init bar store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using noop: %v", err)
			st = store.NewNoopStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoopStore()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler and replay cached bars through the fresh engine
	sched := scheduler.NewScheduler(ctx, col, eng, pos, tn, st)
	if err := sched.WarmUp(); err != nil {
		log.Printf("[WARN] warm-up replay: %v", err)
	}
	if err := sched.RegisterAll(cfg.Schedule.PollCron, cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, polling now")
		go sched.RunPollNow()
	}

	log.Println("[INFO] TrendSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TrendSentinel stopped")
}
