package dedup

import (
	"github.com/josecerv/search-costs-experiment-sub000/internal/ingest"
)

// Result reports the outcome of the same-day collapse.
type Result struct {
	Survivors    []ingest.NormalizedAppearance
	Removed      int
	DroppedEmpty int
}

// collapseKey groups appearances that denote the same entity on the same day.
type collapseKey struct {
	name        string
	affiliation string
	field       string
	day         int64
}

// Collapse drops records with no extractable name, then collapses groups of
// normalized (name, affiliation, field, calendar day) tuples to their
// first-encountered appearance in source order. Records whose dates could not
// be parsed are kept as-is; they are never force-matched into a group.
func Collapse(records []ingest.NormalizedAppearance) Result {
	var res Result
	seen := make(map[collapseKey]struct{}, len(records))

	for _, rec := range records {
		if rec.NameNorm == "" {
			res.DroppedEmpty++
			continue
		}
		if !rec.DayValid {
			res.Survivors = append(res.Survivors, rec)
			continue
		}
		key := collapseKey{
			name:        rec.NameNorm,
			affiliation: rec.AffiliationNorm,
			field:       rec.FieldNorm,
			day:         rec.Day.Unix(),
		}
		if _, dup := seen[key]; dup {
			res.Removed++
			continue
		}
		seen[key] = struct{}{}
		res.Survivors = append(res.Survivors, rec)
	}
	return res
}
