package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/photon00/twstock-correlation/internal/analysis"
	"github.com/photon00/twstock-correlation/internal/catalog"
	"github.com/photon00/twstock-correlation/internal/collector"
	"github.com/photon00/twstock-correlation/internal/config"
	"github.com/photon00/twstock-correlation/internal/scheduler"
	"github.com/photon00/twstock-correlation/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] twstock-correlation starting...")

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

	// Init catalog store
	var store catalog.Store
	if cfg.Catalog.SQLitePath != "" {
		ss, err := catalog.NewSQLiteStore(cfg.Catalog.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite catalog failed, using in-memory: %v", err)
			store = catalog.NewMemoryStore()
		} else {
			store = ss
			defer ss.Close()
		}
	} else {
		store = catalog.NewMemoryStore()
	}

	// Init price fetcher
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	if cfg.Provider.BaseURL != "" {
		fetcher.BaseURL = cfg.Provider.BaseURL
	}
	log.Printf("[INFO] price provider: %s", fetcher.Name())

	batch := collector.NewBatchFetcher(fetcher, store)
	engine := analysis.NewEngine(batch, store)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init catalog updater and refresh scheduler
	updater := catalog.NewUpdater(store, cfg.Proxy)
	if cfg.Catalog.ListedURL != "" {
		updater.ListedURL = cfg.Catalog.ListedURL
	}
	if cfg.Catalog.OTCURL != "" {
		updater.OTCURL = cfg.Catalog.OTCURL
	}
	sched := scheduler.NewScheduler(ctx, updater)
	if err := sched.Register(cfg.Catalog.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Warm the catalog without blocking startup.
	go sched.RunNow()

	// Init HTTP server
	srv := server.NewServer(engine, store, cfg.Analysis.DefaultLimit)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: srv.Routes(),
	}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] twstock-correlation is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] twstock-correlation stopped")
}
