package analysis

import (
	"log/slog"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/index"
	"benchhq/benchvault/pkg/bench/ledger"
)

// Detector runs regression analysis over a ledger's metric series. It
// resolves each suite's polarity from the ledger and reuses one metric
// index across queries.
type Detector struct {
	ledger *ledger.Ledger
	index  *index.MetricIndex
	cfg    Config
	logger *slog.Logger
}

// NewDetector creates a detector over the given ledger and index.
// A nil index gets a fresh one; a zero-value config gets the defaults.
func NewDetector(l *ledger.Ledger, ix *index.MetricIndex, cfg Config) *Detector {
	if ix == nil {
		ix = index.New(l)
	}
	if cfg.Window == 0 && cfg.Threshold == 0 {
		cfg = DefaultConfig()
	}
	return &Detector{
		ledger: l,
		index:  ix,
		cfg:    cfg,
		logger: slog.Default().With("component", "bench.analysis"),
	}
}

// Report is the analyzed series for one metric.
type Report struct {
	Suite  string        `json:"suite"`
	Metric string        `json:"metric"`
	Extra  string        `json:"extra,omitempty"`
	Points []PointReport `json:"points"`
}

// Analyze classifies the full series of one metric. The suite must hold
// at least one entry so its polarity can be resolved; an empty or
// unknown suite is a configuration error, never a guessed default.
func (d *Detector) Analyze(suite, metric, extra string) (*Report, error) {
	polarity := d.ledger.Tool(suite).Polarity()

	points := d.index.SeriesFor(suite, metric, extra)
	reports, err := Analyze(points, polarity, d.cfg)
	if err != nil {
		return nil, err
	}

	return &Report{
		Suite:  suite,
		Metric: metric,
		Extra:  extra,
		Points: reports,
	}, nil
}

// Regressions scans every metric of a suite and returns the reports that
// contain at least one flagged regression.
func (d *Detector) Regressions(suite string) ([]*Report, error) {
	polarity := d.ledger.Tool(suite).Polarity()
	if polarity == bench.PolarityUnknown {
		return nil, bench.NewConfigurationError("polarity", "suite "+suite+" has no recorded entries")
	}

	reports := []*Report{}
	for _, metric := range d.index.Names(suite) {
		flagged, err := Regressions(d.index.SeriesFor(suite, metric, ""), polarity, d.cfg)
		if err != nil {
			return nil, err
		}
		if len(flagged) == 0 {
			continue
		}

		d.logger.Debug("regressions flagged",
			"suite", suite,
			"metric", metric,
			"count", len(flagged),
		)

		reports = append(reports, &Report{
			Suite:  suite,
			Metric: metric,
			Points: flagged,
		})
	}

	return reports, nil
}
