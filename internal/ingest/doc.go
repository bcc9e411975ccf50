// Package ingest defines the boundary between external data acquisition and
// the resolution engine. Collaborators hand the engine wide-format seminar
// rows with 1-indexed speaker slots; ingest flattens them into appearance
// records, attaches normalized views, and parses calendar days.
//
// The engine is agnostic to the physical column-naming scheme of the source;
// only stable slot indices matter.
package ingest
