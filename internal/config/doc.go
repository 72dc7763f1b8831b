// Package config loads, normalizes, and validates the TOML configuration
// for the parser. Values resolve in order: file, environment fallback,
// repository default.
package config
