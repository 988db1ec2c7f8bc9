// Package logging configures structured logging on log/slog.
package logging
