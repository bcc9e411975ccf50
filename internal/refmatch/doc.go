// Package refmatch links external reference records against the canonical
// speaker registry.
//
// Candidate generation proposes a ranked, bounded list of same-field speakers
// using cheap similarity strategies; adjudication applies confidence tiers so
// only the ambiguous band escalates to the external oracle, in bounded
// batches, behind a persistent decision cache and an in-flight guard that
// prevents duplicate oracle calls for the same question.
package refmatch
