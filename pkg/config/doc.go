// Package config loads, defaults, and validates the BenchVault
// configuration.
//
// Configuration comes from a YAML file, optionally overridden by
// BENCHVAULT_* environment variables. ApplyDefaults fills unset fields,
// and Validate collects every violation into a single ValidationError
// so a misconfigured deployment reports all problems at once.
package config
