package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/veritas-agent/veritas/internal/analyzer"
	"github.com/veritas-agent/veritas/internal/api"
	"github.com/veritas-agent/veritas/internal/batch"
	"github.com/veritas-agent/veritas/internal/bus"
	"github.com/veritas-agent/veritas/internal/chat"
	"github.com/veritas-agent/veritas/internal/config"
	"github.com/veritas-agent/veritas/internal/gemini"
	"github.com/veritas-agent/veritas/internal/intent"
	"github.com/veritas-agent/veritas/internal/processor"
	"github.com/veritas-agent/veritas/internal/report"
	"github.com/veritas-agent/veritas/internal/store"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("veritas starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gemini client
	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	slog.Info("gemini client ready", "model", llm.Model())

	// Intent classifier — missing artifact degrades, never blocks startup
	classifier := intent.New(cfg.IntentModelPath, cfg.IntentThreshold, slog.Default())

	// Synthesis and pipelines
	synth := report.New(llm, slog.Default())
	chatRouter := chat.NewRouter(synth, slog.Default())
	pipeline := batch.New(analyzer.Stub{}, synth, slog.Default())

	// Report archive (optional — reports are still returned, just not kept)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Init(ctx); err != nil {
			slog.Error("failed to init report archive", "error", err)
			os.Exit(1)
		}
		slog.Info("report archive connected")
	} else {
		slog.Warn("DATABASE_URL not set — running without report archive")
	}

	// NATS (optional — without it, batch jobs only arrive over HTTP)
	var busClient *bus.Client
	if cfg.NatsURL != "" {
		busClient, err = bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer busClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — running without job intake")
	}

	// Processor — nil-tolerant on store and bus
	var reportStore processor.ReportStore
	if db != nil {
		reportStore = db
	}
	var publisher processor.Publisher
	if busClient != nil {
		publisher = busClient
	}
	proc := processor.New(pipeline, reportStore, publisher, slog.Default())

	if busClient != nil {
		if err := busClient.Subscribe(bus.SubjectAnalysisRequested, proc.HandleAnalysisRequested); err != nil {
			slog.Error("failed to subscribe to analysis jobs", "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, classifier, chatRouter, proc, db, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if busClient != nil {
		if err := busClient.Publish("veritas.agent.registered", map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"model":     cfg.GeminiModel,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("veritas ready", "port", cfg.Port, "intent_model", classifier.Available())

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("veritas stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
