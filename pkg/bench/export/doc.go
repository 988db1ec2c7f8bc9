// Package export renders metric series and regression reports in
// formats consumed outside the service.
//
// JSONExporter produces compact or pretty JSON, with a streaming
// variant for full entry histories. CSVExporter produces flat rows for
// spreadsheets.
package export
