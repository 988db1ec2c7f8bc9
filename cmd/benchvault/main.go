// BenchVault is a continuous benchmark history store and regression
// surface for CI pipelines.
//
// It ingests per-commit benchmark entries, keeps an append-only ledger
// per suite, projects metric series for querying, and flags regressions
// against a trailing moving-average baseline.
//
// Usage:
//
//	# Start the HTTP server with default configuration
//	benchvault serve
//
//	# Start with a custom configuration file
//	benchvault serve --config /etc/benchvault/config.yaml
//
//	# Append a CI entry from a JSON file
//	benchvault append --suite "Telemetry Pipeline Benchmarks" --file entry.json
//
//	# Query a metric series as CSV
//	benchvault series --suite "Telemetry Pipeline Benchmarks" --metric rate --output csv
//
//	# Run the regression detector over a suite
//	benchvault regressions --suite "Telemetry Pipeline Benchmarks"
//
//	# Write the dashboard document
//	benchvault snapshot
package main

func main() {
	Execute()
}
