// Package speaker derives canonical speaker identities from normalized
// (name, field, affiliation) triples and maintains the in-memory registry of
// canonical speakers built from deduplicated appearance streams.
//
// A speaker ID is a pure function of the normalized triple: the same triple
// always yields the same ID, across processes and runs. The registry only
// ever merges keys (collision union); identities are never deleted.
package speaker
