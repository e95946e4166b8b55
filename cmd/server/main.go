// Package main provides the entry point for the knowledge engine server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacebio/knowledge-engine/internal/abstract"
	"github.com/spacebio/knowledge-engine/internal/config"
	"github.com/spacebio/knowledge-engine/internal/observability"
	"github.com/spacebio/knowledge-engine/internal/reputation"
	"github.com/spacebio/knowledge-engine/internal/search"
	httpserver "github.com/spacebio/knowledge-engine/internal/server/http"
	"github.com/spacebio/knowledge-engine/internal/sources/pubmed"
	"github.com/spacebio/knowledge-engine/internal/summarize"
	"github.com/spacebio/knowledge-engine/internal/translate"
)

// metricsNamespace prefixes every Prometheus metric.
const metricsNamespace = "spacebio"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("knowledge-engine server starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(metricsNamespace)
	}

	// Upstream client shared by search, abstracts and the reputation scorer.
	pubmedClient := pubmed.New(pubmed.Config{
		BaseURL:    cfg.PubMed.BaseURL,
		WebBaseURL: cfg.PubMed.WebBaseURL,
		Tool:       cfg.PubMed.Tool,
		Email:      cfg.PubMed.Email,
		APIKey:     cfg.PubMed.APIKey,
		Timeout:    cfg.PubMed.Timeout,
		RateLimit:  cfg.PubMed.RateLimit,
		BurstSize:  cfg.PubMed.BurstSize,
		MaxResults: cfg.PubMed.MaxResults,
	}, metrics)

	// Optional remote collaborators.
	var summarizerEngine summarize.Engine
	if cfg.Summarizer.EngineURL != "" {
		summarizerEngine = summarize.NewRemoteEngine(cfg.Summarizer.EngineURL, cfg.Summarizer.Timeout)
		logger.Info().Str("url", cfg.Summarizer.EngineURL).Msg("summarization engine configured")
	}
	var translator translate.Translator
	if cfg.Translator.BaseURL != "" {
		translator = translate.NewClient(cfg.Translator.BaseURL, cfg.Translator.Timeout)
		logger.Info().Str("url", cfg.Translator.BaseURL).Msg("translation endpoint configured")
	}

	services := httpserver.Services{
		Search:     search.NewService(pubmedClient, logger, metrics),
		Abstracts:  abstract.NewService(pubmedClient, logger, metrics),
		Reputation: reputation.NewScorer(pubmedClient, cfg.Reputation, logger, metrics),
		Summarizer: summarize.NewService(summarizerEngine, cfg.Summarizer, logger, metrics),
		Translator: translate.NewService(translator, logger, metrics),
	}

	httpSrv := httpserver.NewServer(cfg.Server, services, logger, metrics)

	// Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info().
				Str("address", metricsServer.Addr).
				Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", cfg.Server.HTTPAddress())
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("knowledge-engine is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down knowledge-engine")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("knowledge-engine shutdown complete")
	return nil
}
