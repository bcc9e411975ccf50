package refmatch

import (
	"github.com/josecerv/search-costs-experiment-sub000/internal/textnorm"
)

// ReferenceRecord is an external registry entry to be linked against the
// canonical speaker registry. CategoryLabel is opaque to the engine; it only
// travels through to reporting.
type ReferenceRecord struct {
	RefID          string
	RawName        string
	RawAffiliation string
	Field          string
	CategoryLabel  string
}

// NormalizedReference pairs a reference record with its matching-stable view.
type NormalizedReference struct {
	ReferenceRecord
	NameNorm        string
	AffiliationNorm string
	FieldNorm       string
}

// NormalizeReference attaches normalized fields. The caller must reject
// references whose NameNorm comes back empty before candidate generation.
func NormalizeReference(ref ReferenceRecord) NormalizedReference {
	return NormalizedReference{
		ReferenceRecord: ref,
		NameNorm:        textnorm.Name(ref.RawName),
		AffiliationNorm: textnorm.Affiliation(ref.RawAffiliation),
		FieldNorm:       textnorm.Field(ref.Field),
	}
}
