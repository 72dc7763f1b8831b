// Package logging wraps log/slog with the console and JSON handlers used
// across the parser, plus attribute helpers shared by all components.
package logging
