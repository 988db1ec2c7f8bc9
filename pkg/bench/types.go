package bench

import (
	"fmt"
	"math"
)

// Tool identifies the benchmarking methodology that produced an entry.
// The tool determines the direction of improvement for every measurement
// in entries recorded under it: "customSmallerIsBetter" tools report
// metrics where lower values are better (latency, CPU%, RAM), while
// "customBiggerIsBetter" tools report metrics where higher values are
// better (throughput, message rates).
type Tool string

const (
	// ToolSmallerIsBetter marks entries whose measurements improve as they decrease.
	ToolSmallerIsBetter Tool = "customSmallerIsBetter"

	// ToolBiggerIsBetter marks entries whose measurements improve as they increase.
	ToolBiggerIsBetter Tool = "customBiggerIsBetter"
)

// Polarity is the direction of improvement for a tool's measurements.
// It is resolved once from the tool string at entry construction time
// rather than re-parsed at every aggregation call.
type Polarity int

const (
	// PolarityUnknown is the zero value; entries never carry it.
	PolarityUnknown Polarity = iota

	// SmallerIsBetter means lower measurement values are improvements.
	SmallerIsBetter

	// BiggerIsBetter means higher measurement values are improvements.
	BiggerIsBetter
)

// String returns a human-readable name for the polarity.
func (p Polarity) String() string {
	switch p {
	case SmallerIsBetter:
		return "smallerIsBetter"
	case BiggerIsBetter:
		return "biggerIsBetter"
	default:
		return "unknown"
	}
}

// ParseTool validates a raw tool string and returns the typed Tool.
// Only the two recognized polarity classes are accepted.
func ParseTool(s string) (Tool, error) {
	switch Tool(s) {
	case ToolSmallerIsBetter, ToolBiggerIsBetter:
		return Tool(s), nil
	default:
		return "", NewValidationError("tool", fmt.Sprintf(
			"unrecognized tool %q (must be %q or %q)", s, ToolSmallerIsBetter, ToolBiggerIsBetter))
	}
}

// Polarity resolves the tool's direction of improvement.
// Unrecognized tools resolve to PolarityUnknown.
func (t Tool) Polarity() Polarity {
	switch t {
	case ToolSmallerIsBetter:
		return SmallerIsBetter
	case ToolBiggerIsBetter:
		return BiggerIsBetter
	default:
		return PolarityUnknown
	}
}

// Author identifies a commit author or committer.
type Author struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Commit is the VCS revision a benchmark run was recorded against.
// It is supplied by the CI system and never mutated by this package.
type Commit struct {
	Author    Author `json:"author"`
	Committer Author `json:"committer"`
	Distinct  bool   `json:"distinct"`
	ID        string `json:"id"`        // Full commit hash
	Message   string `json:"message"`   // Commit message
	Timestamp string `json:"timestamp"` // ISO 8601 commit time
	TreeID    string `json:"tree_id"`
	URL       string `json:"url"`
}

// Measurement is one named metric value within an entry.
//
// Name is unique within a single entry's measurement list but recurs
// across entries over time, forming a series. Extra is a free-text label
// identifying the benchmark scenario or variant (for example which
// producer/consumer encodings were exercised). Unit and Extra are
// descriptive metadata and never participate in computation.
//
// Value may be negative: the upstream CI producer occasionally reports
// negative drop counts from counter-reset artifacts, and the ledger
// retains them verbatim rather than masking a data-quality problem.
type Measurement struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Extra string  `json:"extra"`
}

// Entry is one CI benchmark run: a commit, a run timestamp, the tool that
// produced the numbers, and the ordered list of measurements taken.
// Entries are immutable once constructed and may be freely shared across
// readers without copying.
type Entry struct {
	Commit Commit `json:"commit"`

	// Date is the run timestamp in epoch milliseconds. It may differ
	// from the commit timestamp since a commit can be re-benchmarked.
	Date int64 `json:"date"`

	Tool Tool `json:"tool"`

	// Benches holds the run's measurements in the order the CI producer
	// reported them.
	Benches []Measurement `json:"benches"`
}

// Polarity returns the direction of improvement shared by all of the
// entry's measurements.
func (e *Entry) Polarity() Polarity {
	return e.Tool.Polarity()
}

// NewEntry validates raw input and constructs a well-formed Entry.
//
// It fails with a *ValidationError if measurements is empty, if any
// measurement lacks a name or has a non-finite value, or if tool is not
// one of the two recognized polarity classes. Construction is pure: no
// ledger or index is touched, and the measurement slice is copied so the
// caller's slice cannot alias the immutable entry.
func NewEntry(commit Commit, tool string, date int64, measurements []Measurement) (*Entry, error) {
	t, err := ParseTool(tool)
	if err != nil {
		return nil, err
	}

	if len(measurements) == 0 {
		return nil, NewValidationError("benches", "entry must contain at least one measurement")
	}

	for i, m := range measurements {
		if m.Name == "" {
			return nil, NewValidationError("benches", fmt.Sprintf("measurement %d has no name", i))
		}
		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			return nil, NewValidationError("benches", fmt.Sprintf("measurement %q has a non-finite value", m.Name))
		}
	}

	benches := make([]Measurement, len(measurements))
	copy(benches, measurements)

	return &Entry{
		Commit:  commit,
		Date:    date,
		Tool:    t,
		Benches: benches,
	}, nil
}
