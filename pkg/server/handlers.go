package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/analysis"
	"benchhq/benchvault/pkg/bench/codec"
	"benchhq/benchvault/pkg/bench/export"
	"benchhq/benchvault/pkg/bench/index"
	"benchhq/benchvault/pkg/bench/ledger"
	"benchhq/benchvault/pkg/bench/storage"
	"benchhq/benchvault/pkg/telemetry/metrics"
)

// EntriesHandler accepts benchmark entries from CI producers.
type EntriesHandler struct {
	ledger  *ledger.Ledger
	store   storage.Storage
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewEntriesHandler creates the append endpoint handler. store may be
// nil when the deployment runs without durable storage.
func NewEntriesHandler(l *ledger.Ledger, store storage.Storage, collector *metrics.Collector) *EntriesHandler {
	return &EntriesHandler{
		ledger:  l,
		store:   store,
		metrics: collector,
		logger:  slog.Default().With("component", "server.entries"),
	}
}

// appendRequest is the request body for POST /entries.
type appendRequest struct {
	// Suite is the display name grouping entries in the document
	// (e.g., "Telemetry Pipeline Benchmarks").
	Suite string `json:"suite"`

	// Entry is the benchmark run to append.
	Entry *bench.Entry `json:"entry"`
}

// ServeHTTP implements http.Handler for POST /entries.
func (h *EntriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, ErrorTypeInvalidRequest, "method not allowed")
		return
	}

	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest,
			fmt.Sprintf("malformed request body: %v", err))
		return
	}
	if req.Suite == "" {
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, "suite is required")
		return
	}
	if req.Entry == nil {
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, "entry is required")
		return
	}

	// Rebuild through the constructor so decoded entries pass the same
	// validation as programmatic ones.
	entry, err := bench.NewEntry(req.Entry.Commit, string(req.Entry.Tool), req.Entry.Date, req.Entry.Benches)
	if err != nil {
		h.reject(w, string(req.Entry.Tool), err)
		return
	}

	if err := h.ledger.Append(req.Suite, entry); err != nil {
		h.reject(w, string(entry.Tool), err)
		return
	}

	if h.store != nil {
		if err := h.store.Append(r.Context(), req.Suite, entry); err != nil {
			h.logger.Error("durable append failed after ledger accept",
				"suite", req.Suite,
				"date", entry.Date,
				"error", err,
			)
			h.metrics.RecordAppend(string(entry.Tool), "error")
			writeError(w, http.StatusInternalServerError, ErrorTypeServerError,
				"failed to persist entry")
			return
		}
	}

	h.metrics.RecordAppend(string(entry.Tool), "success")
	h.metrics.SetEntries(req.Suite, h.ledger.Len(req.Suite))

	h.logger.Info("entry appended",
		"suite", req.Suite,
		"date", entry.Date,
		"benches", len(entry.Benches),
		"request_id", GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "created",
		"suite":  req.Suite,
		"date":   entry.Date,
		"count":  h.ledger.Len(req.Suite),
	})
}

// reject maps domain errors onto HTTP status codes.
func (h *EntriesHandler) reject(w http.ResponseWriter, tool string, err error) {
	var oooErr *bench.OutOfOrderError
	var valErr *bench.ValidationError

	switch {
	case errors.As(err, &oooErr):
		h.metrics.RecordAppend(tool, "rejected")
		writeError(w, http.StatusConflict, ErrorTypeOutOfOrder, err.Error())
	case errors.As(err, &valErr):
		h.metrics.RecordAppend(tool, "rejected")
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, err.Error())
	default:
		h.metrics.RecordAppend(tool, "error")
		writeError(w, http.StatusInternalServerError, ErrorTypeServerError, err.Error())
	}
}

// SeriesHandler serves metric time series.
type SeriesHandler struct {
	ledger  *ledger.Ledger
	index   *index.MetricIndex
	metrics *metrics.Collector
}

// NewSeriesHandler creates the series query handler.
func NewSeriesHandler(l *ledger.Ledger, ix *index.MetricIndex, collector *metrics.Collector) *SeriesHandler {
	return &SeriesHandler{
		ledger:  l,
		index:   ix,
		metrics: collector,
	}
}

// ServeHTTP implements http.Handler for GET /series.
func (h *SeriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorTypeInvalidRequest, "method not allowed")
		return
	}

	start := time.Now()

	q := r.URL.Query()
	suite := q.Get("suite")
	metric := q.Get("metric")
	extra := q.Get("extra")

	if suite == "" || metric == "" {
		h.metrics.RecordSeriesQuery("rejected")
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, "suite and metric are required")
		return
	}

	points := h.index.SeriesFor(suite, metric, extra)
	if len(points) == 0 {
		h.metrics.RecordSeriesQuery("not_found")
		writeError(w, http.StatusNotFound, ErrorTypeNotFound,
			fmt.Sprintf("no points for suite %q metric %q", suite, metric))
		return
	}

	series := &export.Series{
		Suite:  suite,
		Metric: metric,
		Extra:  extra,
		Points: points,
	}

	h.metrics.RecordSeriesQuery("success")
	h.metrics.ObserveQueryDuration("series", time.Since(start))
	writeJSON(w, http.StatusOK, series)
}

// RegressionsHandler runs the detector over the requested series.
type RegressionsHandler struct {
	ledger  *ledger.Ledger
	index   *index.MetricIndex
	baseCfg analysis.Config
	metrics *metrics.Collector
}

// NewRegressionsHandler creates the regression query handler. baseCfg
// supplies the window and threshold used when the request does not
// override them.
func NewRegressionsHandler(l *ledger.Ledger, ix *index.MetricIndex, baseCfg analysis.Config, collector *metrics.Collector) *RegressionsHandler {
	return &RegressionsHandler{
		ledger:  l,
		index:   ix,
		baseCfg: baseCfg,
		metrics: collector,
	}
}

// ServeHTTP implements http.Handler for GET /regressions.
func (h *RegressionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorTypeInvalidRequest, "method not allowed")
		return
	}

	start := time.Now()

	q := r.URL.Query()
	suite := q.Get("suite")
	if suite == "" {
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, "suite is required")
		return
	}

	cfg := h.baseCfg
	if v := q.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest,
				fmt.Sprintf("invalid threshold %q", v))
			return
		}
		cfg.Threshold = f
	}
	if v := q.Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest,
				fmt.Sprintf("invalid window %q", v))
			return
		}
		cfg.Window = n
	}

	detector := analysis.NewDetector(h.ledger, h.index, cfg)

	var reports []*analysis.Report
	var err error
	if metric := q.Get("metric"); metric != "" {
		var report *analysis.Report
		report, err = detector.Analyze(suite, metric, q.Get("extra"))
		if report != nil {
			reports = []*analysis.Report{report}
		}
	} else {
		reports, err = detector.Regressions(suite)
	}
	if err != nil {
		var cfgErr *bench.ConfigurationError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, ErrorTypeServerError, err.Error())
		return
	}

	flagged := 0
	for _, report := range reports {
		for _, p := range report.Points {
			if p.Class == analysis.Regression {
				flagged++
			}
		}
	}
	h.metrics.RecordRegressionsFlagged(suite, flagged)
	h.metrics.ObserveQueryDuration("regressions", time.Since(start))

	if reports == nil {
		reports = []*analysis.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// DownloadHandler serves the full persisted document.
type DownloadHandler struct {
	ledger *ledger.Ledger
}

// NewDownloadHandler creates the document download handler.
func NewDownloadHandler(l *ledger.Ledger) *DownloadHandler {
	return &DownloadHandler{ledger: l}
}

// ServeHTTP implements http.Handler for GET /download. The body is the
// byte-stable document, identical to what the snapshot writer puts on
// disk.
func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorTypeInvalidRequest, "method not allowed")
		return
	}

	data, err := codec.Marshal(h.ledger.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorTypeServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="benchmarks.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HealthHandler handles liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorTypeInvalidRequest, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// ReadyHandler handles readiness probes. The service is ready when the
// storage backend answers queries; without a backend it is always ready.
type ReadyHandler struct {
	store storage.Storage
}

// NewReadyHandler creates a new readiness check handler.
func NewReadyHandler(store storage.Storage) *ReadyHandler {
	return &ReadyHandler{store: store}
}

// ServeHTTP implements http.Handler for readiness checks.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, ErrorTypeInvalidRequest, "method not allowed")
		return
	}

	status := "ready"
	statusCode := http.StatusOK

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if _, err := h.store.Suites(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, statusCode, map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
	})
}
