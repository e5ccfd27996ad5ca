package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PortfolioPilot/internal/config"
	"PortfolioPilot/internal/market"
	"PortfolioPilot/internal/notifier"
	"PortfolioPilot/internal/recorder"
	"PortfolioPilot/internal/scheduler"
	"PortfolioPilot/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PortfolioPilot starting...")

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
	var fetcher market.Fetcher
	if cfg.DataSource.Mode == "static" {
		fetcher = market.NewStaticFetcher()
	} else {
		fetcher = market.NewYahooFetcher(cfg.DataSource.MarketSymbol, cfg.DataSource.VolatilitySymbol, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector and context cache
	col := market.NewCollector(fetcher, time.Duration(cfg.DataSource.TimeoutSeconds)*time.Second)
	cache := &market.Cache{}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)

	// Init session manager
	sm := session.NewManager(col, cache, rec, cfg.Telegram.AllowedChatID, cfg.Advisor.DefaultAge, cfg.Advisor.AnnualGrowthRate)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, cache, rec)
	if err := sched.RegisterAll(cfg.Schedule.SnapshotCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sm.HandleMessage)
	log.Println("[INFO] Telegram polling started")

	// Optional: warm the market cache on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, taking market snapshot now")
		go sched.RunSnapshotNow()
	}

	log.Println("[INFO] PortfolioPilot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] PortfolioPilot stopped")
}
