// Package analysis computes rolling summary statistics over metric
// series and flags deviations from the trailing baseline.
//
// Each point is compared against the moving average of up to Window
// prior points; a relative deviation beyond Threshold is flagged as a
// Regression or Improvement according to the tool's polarity. Points
// without a defined baseline (the first of a series, or any point whose
// baseline averages to exactly zero) are classified Unknown and
// surfaced as such, never silently treated as a 0% deviation.
//
// The package is strictly read-side: nothing here mutates a ledger.
package analysis
