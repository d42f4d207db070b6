package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/dembasy/ranchhand/internal/config"
	"github.com/dembasy/ranchhand/internal/repository/mongodb"
	"github.com/dembasy/ranchhand/internal/repository/sheets"
	"github.com/dembasy/ranchhand/internal/scheduler"
	"github.com/dembasy/ranchhand/internal/server/handlers"
	"github.com/dembasy/ranchhand/internal/server/router"
	"github.com/dembasy/ranchhand/internal/service/actions"
	"github.com/dembasy/ranchhand/internal/service/agent"
	"github.com/dembasy/ranchhand/internal/service/farm"
	"github.com/dembasy/ranchhand/pkg/clients/anthropic"
	"github.com/dembasy/ranchhand/pkg/clients/transcribe"
	"github.com/dembasy/ranchhand/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	contextBuilder := farm.NewBuilder(mongoRepo, baseLogger.Named("svc.farm"))
	executor := actions.NewService(mongoRepo, contextBuilder, baseLogger.Named("svc.actions"))

	// Initialize AI Client
	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, chat requests will be rejected")
	}

	var transcriber transcribe.Client
	if cfg.AI.OpenAIKey != "" {
		transcriber = transcribe.NewClient(cfg.AI.OpenAIKey)
		baseLogger.Info("transcription client enabled")
	} else {
		baseLogger.Warn("openai api key missing, transcription disabled")
	}

	orchestrator := agent.NewOrchestrator(aiClient, executor, contextBuilder, mongoRepo, baseLogger.Named("svc.agent"))
	agentHandler := handlers.NewAgentHandler(orchestrator, transcriber, mongoRepo, baseLogger.Named("handlers.agent"))
	engine := router.New(agentHandler, baseLogger.Named("router"))

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
	}

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, mongoRepo, contextBuilder, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
