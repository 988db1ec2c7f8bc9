// Package bench defines the core data model for Benchvault: immutable
// benchmark entries recorded against VCS commits, and the shared error
// taxonomy used across the ledger, index, and analysis layers.
//
// # Data Model
//
// One CI run produces one Entry: the Commit under test, a run timestamp
// (epoch milliseconds; a commit can be re-benchmarked, so it may differ
// from the commit timestamp), the Tool that produced the numbers, and an
// ordered list of Measurements. A Measurement pairs a free-text metric
// name with a float64 value plus descriptive unit/extra metadata; the
// metric vocabulary is open-ended and evolves per CI run, so names are
// matched exactly rather than against an enum.
//
// # Polarity
//
// Direction of improvement is a property of the tool, not of individual
// metrics: every measurement within a "customSmallerIsBetter" entry
// improves as it decreases, and vice versa for "customBiggerIsBetter".
// ParseTool resolves the polarity once at construction time.
//
// # Immutability
//
// Entries and their measurements are immutable after NewEntry returns and
// may be shared freely across concurrent readers without copying. The
// ledger layer (package ledger) exclusively owns appended entries.
package bench
