package analysis

import (
	"encoding/json"
	"fmt"

	"benchhq/benchvault/pkg/bench"
	"benchhq/benchvault/pkg/bench/index"
)

// Classification labels one series point relative to its rolling baseline.
type Classification int

const (
	// Unknown marks a point with no defined deviation: either no prior
	// points exist to form a baseline, or the baseline average is
	// exactly zero and the percentage change is undefined. Unknown is
	// distinct from both Regression and Improvement and must never be
	// coerced to either; dashboards should render such points greyed
	// out rather than omit them.
	Unknown Classification = iota

	// Stable marks a deviation within the configured threshold.
	Stable

	// Improvement marks a deviation beyond the threshold in the
	// direction of "better" per the tool's polarity.
	Improvement

	// Regression marks a deviation beyond the threshold in the
	// direction of "worse" per the tool's polarity.
	Regression
)

var classificationNames = map[Classification]string{
	Unknown:     "unknown",
	Stable:      "stable",
	Improvement: "improvement",
	Regression:  "regression",
}

// String returns the lowercase classification name.
func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("classification(%d)", int(c))
}

// MarshalJSON encodes the classification as its string name, which is
// what API consumers and the CLI render.
func (c Classification) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes a classification from its string name.
func (c *Classification) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for class, n := range classificationNames {
		if n == name {
			*c = class
			return nil
		}
	}
	return fmt.Errorf("unknown classification %q", name)
}

// Config contains tuning for the regression detector.
type Config struct {
	// Window is the number of trailing points the moving-average
	// baseline considers. Must be positive; points with fewer prior
	// observations use all that exist.
	Window int

	// Threshold is the relative deviation beyond which a point is
	// flagged. 0.15 means a 15% change against the rolling baseline.
	Threshold float64
}

const (
	// DefaultWindow bounds the rolling baseline at ten prior runs.
	DefaultWindow = 10

	// DefaultThreshold flags deviations beyond 15%, the middle of the
	// 10–20% band that run-to-run CPU/RAM variance in CI makes useful.
	DefaultThreshold = 0.15
)

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		Window:    DefaultWindow,
		Threshold: DefaultThreshold,
	}
}

// validate rejects configurations the detector cannot honor. A zero or
// negative window would make the baseline meaningless, and guessing a
// direction for an unknown polarity would invert regressions silently.
func validate(cfg Config, polarity bench.Polarity) error {
	if cfg.Window <= 0 {
		return bench.NewConfigurationError("window", fmt.Sprintf("window must be positive, got %d", cfg.Window))
	}
	if cfg.Threshold < 0 {
		return bench.NewConfigurationError("threshold", fmt.Sprintf("threshold must be >= 0, got %g", cfg.Threshold))
	}
	if polarity != bench.SmallerIsBetter && polarity != bench.BiggerIsBetter {
		return bench.NewConfigurationError("polarity", "tool polarity is unknown")
	}
	return nil
}

// PointReport is one analyzed series point.
//
// Baseline and Deviation are meaningful only when Class is not Unknown;
// a point without a defined baseline reports both as zero rather than
// NaN or infinity.
type PointReport struct {
	Date      int64          `json:"date"`
	Value     float64        `json:"value"`
	Baseline  float64        `json:"baseline"`
	Deviation float64        `json:"deviation"`
	Class     Classification `json:"class"`
}

// Analyze classifies every point of a series against its trailing
// moving average.
//
// For point i the baseline is the mean of up to cfg.Window points
// preceding i (exclusive of i itself; fewer prior points use all that
// exist, and the first point has no baseline at all). The deviation is
// the relative change (value - baseline) / baseline. A smaller-is-better
// polarity flags deviation > threshold as Regression and
// deviation < -threshold as Improvement; bigger-is-better inverts the
// comparison. A zero baseline leaves the deviation undefined and the
// point Unknown.
//
// Analyze is a pure read-side function: it never mutates the series or
// any ledger state.
func Analyze(points []index.Point, polarity bench.Polarity, cfg Config) ([]PointReport, error) {
	if err := validate(cfg, polarity); err != nil {
		return nil, err
	}

	reports := make([]PointReport, 0, len(points))
	for i, p := range points {
		report := PointReport{Date: p.Date, Value: p.Value, Class: Unknown}

		lo := i - cfg.Window
		if lo < 0 {
			lo = 0
		}
		if i > lo {
			sum := 0.0
			for _, prior := range points[lo:i] {
				sum += prior.Value
			}
			avg := sum / float64(i-lo)

			if avg != 0 {
				deviation := (p.Value - avg) / avg
				report.Baseline = avg
				report.Deviation = deviation
				report.Class = classify(deviation, polarity, cfg.Threshold)
			}
		}

		reports = append(reports, report)
	}

	return reports, nil
}

// classify maps a defined deviation to its label under the tool's
// direction of improvement.
func classify(deviation float64, polarity bench.Polarity, threshold float64) Classification {
	worse := deviation > threshold
	better := deviation < -threshold
	if polarity == bench.BiggerIsBetter {
		worse, better = better, worse
	}

	switch {
	case worse:
		return Regression
	case better:
		return Improvement
	default:
		return Stable
	}
}

// Regressions analyzes a series and returns only the points flagged as
// regressions.
func Regressions(points []index.Point, polarity bench.Polarity, cfg Config) ([]PointReport, error) {
	reports, err := Analyze(points, polarity, cfg)
	if err != nil {
		return nil, err
	}

	flagged := []PointReport{}
	for _, r := range reports {
		if r.Class == Regression {
			flagged = append(flagged, r)
		}
	}
	return flagged, nil
}
