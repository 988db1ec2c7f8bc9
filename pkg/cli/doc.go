// Package cli holds shared helpers for the benchvault commands:
// output formatting (text, json, csv) and signal-aware contexts.
package cli
