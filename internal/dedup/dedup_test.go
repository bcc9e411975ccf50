package dedup

import (
	"testing"

	"github.com/josecerv/search-costs-experiment-sub000/internal/ingest"
	"github.com/josecerv/search-costs-experiment-sub000/internal/speaker"
)

func appearance(name, affiliation, field, date string) ingest.NormalizedAppearance {
	recs := ingest.Normalize([]ingest.AppearanceRecord{{
		RawName:        name,
		RawAffiliation: affiliation,
		Field:          field,
		EventDate:      date,
	}})
	return recs[0]
}

func TestCollapseSameDay(t *testing.T) {
	records := []ingest.NormalizedAppearance{
		appearance("Maria Garcia", "UCLA", "Chemistry", "2024-10-01"),
		appearance("Maria Garcia", "UCLA", "Chemistry", "2024-10-01 14:00"),
		appearance("Maria Garcia", "UCLA", "Chemistry", "2024-10-02"),
	}

	res := Collapse(records)
	if len(res.Survivors) != 2 {
		t.Fatalf("survivors = %d, want 2", len(res.Survivors))
	}
	if res.Removed != 1 {
		t.Errorf("removed = %d, want 1", res.Removed)
	}
	// First-encountered appearance survives.
	if res.Survivors[0].EventDate != "2024-10-01" {
		t.Errorf("survivor = %q, want the first-encountered record", res.Survivors[0].EventDate)
	}
}

func TestCollapseDropsEmptyNames(t *testing.T) {
	records := []ingest.NormalizedAppearance{
		appearance("---", "", "Chemistry", "2024-10-01"),
		appearance("Maria Garcia", "UCLA", "Chemistry", "2024-10-01"),
	}

	res := Collapse(records)
	if res.DroppedEmpty != 1 {
		t.Errorf("dropped = %d, want 1", res.DroppedEmpty)
	}
	if len(res.Survivors) != 1 {
		t.Errorf("survivors = %d, want 1", len(res.Survivors))
	}
}

func TestCollapseSkipsUnparseableDates(t *testing.T) {
	records := []ingest.NormalizedAppearance{
		appearance("Maria Garcia", "UCLA", "Chemistry", "sometime"),
		appearance("Maria Garcia", "UCLA", "Chemistry", "sometime"),
	}

	res := Collapse(records)
	if len(res.Survivors) != 2 {
		t.Errorf("unparseable dates were force-matched: survivors = %d, want 2", len(res.Survivors))
	}
}

func TestCollapsePreservesIdentityCount(t *testing.T) {
	records := []ingest.NormalizedAppearance{
		appearance("Maria Garcia", "UCLA", "Chemistry", "2024-10-01"),
		appearance("Maria Garcia", "UCLA", "Chemistry", "2024-10-01 14:00"),
		appearance("Bob Tan", "MIT", "Chemistry", "2024-10-01"),
		appearance("Bob Tan", "MIT", "Chemistry", "2024-11-05"),
		appearance("Carol Diaz", "Stanford Univ", "Physics", "03/10/2024"),
	}

	before := distinctSpeakerIDs(t, records)
	res := Collapse(records)
	after := distinctSpeakerIDs(t, res.Survivors)

	if before != after {
		t.Errorf("distinct speaker IDs changed: %d before, %d after", before, after)
	}
}

func distinctSpeakerIDs(t *testing.T, records []ingest.NormalizedAppearance) int {
	t.Helper()
	ids := make(map[string]struct{})
	for _, rec := range records {
		if rec.NameNorm == "" {
			continue
		}
		id, err := speaker.ID(rec.NameNorm, rec.FieldNorm, rec.AffiliationNorm)
		if err != nil {
			t.Fatalf("speaker.ID: %v", err)
		}
		ids[id] = struct{}{}
	}
	return len(ids)
}

func TestMergeSlots(t *testing.T) {
	primary := []ingest.Row{
		{
			SeminarID: "sem-1",
			BatchID:   "primary",
			Field:     "Chemistry",
			Date:      "2024-10-01",
			Slots: []ingest.Slot{
				{Name: "Maria Garcia", Affiliation: "UCLA"},
				{},
				{},
			},
		},
	}
	supplements := []ingest.Row{
		{
			SeminarID: "sem-1",
			BatchID:   "supplement",
			Slots: []ingest.Slot{
				{Name: "Bob Tan", Affiliation: "MIT"},
				{Name: "Carol Diaz", Affiliation: "Stanford"},
				{Name: "Dan Oyelaran", Affiliation: "Oxford"},
			},
		},
		{
			SeminarID: "sem-9",
			BatchID:   "supplement",
			Slots:     []ingest.Slot{{Name: "Eve Moreau", Affiliation: "ENS"}},
		},
	}

	merged, report := MergeSlots(primary, supplements)

	if len(merged) != 2 {
		t.Fatalf("merged rows = %d, want 2 (primary + unmatched)", len(merged))
	}
	row := merged[0]
	if row.Slots[0].Name != "Maria Garcia" {
		t.Error("filled slot was overwritten")
	}
	if row.Slots[1].Name != "Bob Tan" || row.Slots[2].Name != "Carol Diaz" {
		t.Errorf("slots not filled in source order: %+v", row.Slots)
	}
	if report.SlotsFilled != 2 {
		t.Errorf("SlotsFilled = %d, want 2", report.SlotsFilled)
	}
	if report.Overflow != 1 {
		t.Errorf("Overflow = %d, want 1 (Dan had no slot)", report.Overflow)
	}
	if report.Unmatched != 1 {
		t.Errorf("Unmatched = %d, want 1", report.Unmatched)
	}
	// Primary input must not be mutated.
	if primary[0].Slots[1].Name != "" {
		t.Error("MergeSlots mutated its input")
	}
}
