// Package telemetry provides observability for BenchVault.
//
// # Components
//
//   - logging: Structured logging via log/slog
//   - metrics: Prometheus metrics collection
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	logging.SetDefault(logger)
//
//	collector := metrics.NewCollector(nil)
//	collector.RecordAppend("customSmallerIsBetter", "success")
//
// Components derive their own loggers with
// slog.Default().With("component", ...), so one call to SetDefault at
// startup wires the whole process.
package telemetry
