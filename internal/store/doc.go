// Package store persists the speaker registry, oracle decision cache, and
// per-run match outcomes in a single SQLite database.
package store
