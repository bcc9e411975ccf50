// Package dedup collapses duplicate speaker observations before they pollute
// downstream counts.
//
// Two passes run in order: a cross-batch slot-filling merge that folds
// supplementary seminar rows into the first empty slots of their primary
// rows, and a same-entity-same-day collapse that keeps exactly one appearance
// per normalized (name, affiliation, field, calendar day) tuple. An
// empty-speaker filter runs before either pass; records with no extractable
// name are dropped and counted, never treated as duplicates.
//
// Deduplication removes appearances, not identities: the set of distinct
// speaker IDs is identical before and after.
package dedup
