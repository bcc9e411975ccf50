// Package runner orchestrates the two pipeline entry points: building the
// canonical speaker registry from ingested seminar rows, and adjudicating
// reference records against it. Runs are serialized by a file lock so two
// invocations never race on the shared database.
package runner
