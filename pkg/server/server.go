package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"benchhq/benchvault/pkg/bench/analysis"
	"benchhq/benchvault/pkg/bench/index"
	"benchhq/benchvault/pkg/bench/ledger"
	"benchhq/benchvault/pkg/bench/storage"
	"benchhq/benchvault/pkg/config"
	"benchhq/benchvault/pkg/telemetry/metrics"
)

// Server is the HTTP surface over the benchmark ledger.
type Server struct {
	config      *config.ServerConfig
	metricsCfg  *config.MetricsConfig
	ledger      *ledger.Ledger
	index       *index.MetricIndex
	store       storage.Storage
	detectorCfg analysis.Config
	collector   *metrics.Collector
	logger      *slog.Logger

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options carries the collaborators a Server serves from.
type Options struct {
	// Config is the HTTP server configuration.
	Config *config.ServerConfig

	// MetricsConfig controls the /metrics endpoint.
	MetricsConfig *config.MetricsConfig

	// Ledger is the in-memory entry history. Required.
	Ledger *ledger.Ledger

	// Index is the metric index over Ledger. Built from Ledger when nil.
	Index *index.MetricIndex

	// Store is the durable backend entries are double-written to.
	// Optional.
	Store storage.Storage

	// DetectorConfig supplies default window and threshold for
	// /regressions.
	DetectorConfig analysis.Config

	// Collector receives server metrics. A fresh one is created when
	// nil.
	Collector *metrics.Collector
}

// NewServer creates a server over the given collaborators.
func NewServer(opts Options) *Server {
	ix := opts.Index
	if ix == nil {
		ix = index.New(opts.Ledger)
	}
	collector := opts.Collector
	if collector == nil {
		collector = metrics.NewCollector(nil)
	}
	detectorCfg := opts.DetectorConfig
	if detectorCfg.Window == 0 && detectorCfg.Threshold == 0 {
		detectorCfg = analysis.DefaultConfig()
	}

	return &Server{
		config:      opts.Config,
		metricsCfg:  opts.MetricsConfig,
		ledger:      opts.Ledger,
		index:       ix,
		store:       opts.Store,
		detectorCfg: detectorCfg,
		collector:   collector,
		logger:      slog.Default().With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the
// configured shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// Handler builds the route mux with the full middleware chain. Exposed
// for tests driving the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/entries", NewEntriesHandler(s.ledger, s.store, s.collector))
	mux.Handle("/series", NewSeriesHandler(s.ledger, s.index, s.collector))
	mux.Handle("/regressions", NewRegressionsHandler(s.ledger, s.index, s.detectorCfg, s.collector))
	mux.Handle("/download", NewDownloadHandler(s.ledger))
	mux.Handle("/health", NewHealthHandler())
	mux.Handle("/ready", NewReadyHandler(s.store))

	if s.metricsCfg == nil || s.metricsCfg.Enabled {
		path := "/metrics"
		if s.metricsCfg != nil && s.metricsCfg.Path != "" {
			path = s.metricsCfg.Path
		}
		mux.Handle(path, s.collector.Handler())
	}

	var handler http.Handler = mux
	handler = TimeoutMiddleware(s.config.RequestTimeout)(handler)
	handler = LoggingMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(handler)

	return handler
}
