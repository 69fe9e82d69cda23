package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scannerd/eventwatch/app/api"
	"github.com/scannerd/eventwatch/app/cfg"
	"github.com/scannerd/eventwatch/app/database"
	"github.com/scannerd/eventwatch/app/feed"
	"github.com/scannerd/eventwatch/app/notify"
	"github.com/scannerd/eventwatch/app/scanner"
	"github.com/scannerd/eventwatch/app/watch"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Event Watcher", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	eventRepo := database.NewEventRepository(db)
	sightingRepo := database.NewSightingRepository(db)
	questRepo := database.NewQuestRepository(db)

	timeout := time.Duration(appCfg.FetchTimeout) * time.Second

	var devices watch.DeviceController
	var mapping watch.MappingRefresher
	if appCfg.ScannerURL != "" {
		scannerClient := scanner.NewClient(appCfg.ScannerURL, appCfg.UserAgent, timeout)
		devices = scannerClient
		mapping = scannerClient
	} else if appCfg.RestartDevicesEnable {
		slog.Error("Device restarts enabled without a scanner URL, disabling them")
	}

	notifier := setupNotifier(appCfg, timeout)

	fetcher := feed.NewFetcher(&http.Client{}, appCfg.FeedURL, appCfg.UserAgent,
		timeout, appCfg.MaxEventDuration)
	reconciler := watch.NewReconciler(eventRepo, appCfg.DeleteRemovedEvents)
	dispatcher := watch.NewDispatcher(sightingRepo, questRepo, devices, mapping, notifier,
		appCfg.ResetMonstersTruncate, appCfg.RestartDevicesEnable && devices != nil)

	questEdges := watch.ParseQuestReactions(appCfg.ResetQuestsFor)
	watcher := watch.NewWatcher(fetcher, reconciler, dispatcher, questEdges)
	watcher.Start()
	defer watcher.Stop()
	slog.Info("Watcher started", "tick_interval", appCfg.TickInterval,
		"feed_refresh_interval", appCfg.FeedRefreshInterval)

	apiHandler := api.NewHandler(watcher, eventRepo, sightingRepo, questRepo)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Watcher is stopped via defer
	slog.Info("Shutdown complete")
}

// setupNotifier builds the quest boundary notifier. Missing or incomplete
// transport parameters disable notifications instead of failing startup.
func setupNotifier(appCfg *cfg.Cfg, timeout time.Duration) watch.Notifier {
	templates, err := notify.LoadTemplates(appCfg.TemplatesPath)
	if err != nil {
		slog.Error("Failed to load notification templates, using defaults", "error", err)
	}

	notifier, err := notify.NewNotifier(templates, appCfg.WebhookURL, appCfg.BotToken,
		appCfg.BotChatID, appCfg.QuestRescanStart, appCfg.QuestRescanEnd, timeout)
	if err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			slog.Info("Quest boundary notifications disabled, no transport configured")
		} else {
			slog.Error("Failed to set up notifications, disabling them", "error", err)
		}
		return nil
	}

	slog.Info("Quest boundary notifications enabled",
		"webhook", appCfg.WebhookURL != "", "bot", appCfg.BotToken != "")
	return notifier
}
