// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales-practice-api/internal/config"
	"sales-practice-api/internal/domain/ports/adapter"
	aiAdapters "sales-practice-api/internal/infra/adapters/ai"
	"sales-practice-api/internal/infra/locker"
	"sales-practice-api/internal/infra/logging"
	"sales-practice-api/internal/infra/memstore"
	"sales-practice-api/internal/infra/metrics"
	"sales-practice-api/internal/infra/web"
	"sales-practice-api/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode (console logs, noop completion adapter)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Session store ----
	sessionRepo := memstore.NewSessionRepo()
	sessionLocks := locker.NewKeyedLocker()

	// ---- Completion adapter ----
	var ai adapter.CompletionAdapter
	if cfg.Runtime.Dev {
		ai = aiAdapters.NewNoopAdapter()
		logger.Info().Msg("completion adapter: noop")
	} else {
		ai, err = aiAdapters.NewLMStudioAdapter(cfg.LLM.Endpoint, cfg.LLM.Model, cfg.LLM.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("completion adapter")
		}
		logger.Info().Str("endpoint", cfg.LLM.Endpoint).Str("model", cfg.LLM.Model).Msg("completion adapter: openai-compatible")
	}

	// ---- Use case ----
	practiceUC := usecase.NewPracticeUseCase(sessionRepo, ai, sessionLocks, logger)

	// ---- HTTP server ----
	srv := web.NewServer(practiceUC, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("sales practice API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
