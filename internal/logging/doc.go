// Package logging assembles the structured slog loggers used across the
// resolution engine.
//
// It centralizes level and format plumbing, standardizes field keys so every
// component emits data with the same shape, and provides a no-op logger for
// tests and wiring code that cannot fail. Prefer these constructors over
// hand-rolled slog setup.
package logging
