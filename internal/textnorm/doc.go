// Package textnorm canonicalizes free-text name, affiliation, and field
// strings into a matching-stable form.
//
// All normalizers share the same base pipeline (diacritic stripping, case
// folding, punctuation removal, whitespace collapsing) and layer kind-specific
// rules on top: honorific stripping for names, synonym expansion and
// institutional head-clause extraction for affiliations. Every normalizer is
// idempotent, so already-normalized text passes through unchanged.
package textnorm
