package ingest

import (
	"testing"
	"time"
)

func TestParseCalendarDay(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"iso", "2024-10-01", "2024-10-01", true},
		{"iso with time", "2024-10-01 14:00", "2024-10-01", true},
		{"iso with seconds", "2024-10-01 14:00:30", "2024-10-01", true},
		{"dmy", "01/10/2024", "2024-10-01", true},
		{"dmy short", "1/10/2024", "2024-10-01", true},
		{"garbage", "next tuesday", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCalendarDay(tt.raw)
			if ok != tt.valid {
				t.Fatalf("ParseCalendarDay(%q) valid = %v, want %v", tt.raw, ok, tt.valid)
			}
			if !tt.valid {
				return
			}
			want, err := time.Parse("2006-01-02", tt.want)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want.UTC()) {
				t.Errorf("ParseCalendarDay(%q) = %v, want %v", tt.raw, got, want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("time-of-day survived: %v", got)
			}
		})
	}
}

func TestFlattenPreservesSlotIndices(t *testing.T) {
	rows := []Row{
		{
			SeminarID: "sem-1",
			BatchID:   "primary",
			Field:     "Chemistry",
			Date:      "2024-10-01",
			Slots: []Slot{
				{Name: "Maria Garcia", Affiliation: "UCLA"},
				{},
				{Name: "Bob Tan", Affiliation: "MIT"},
			},
		},
	}

	records := Flatten(rows)
	if len(records) != 2 {
		t.Fatalf("Flatten produced %d records, want 2", len(records))
	}
	if records[0].SlotIndex != 1 || records[1].SlotIndex != 3 {
		t.Errorf("slot indices = %d, %d; want 1, 3", records[0].SlotIndex, records[1].SlotIndex)
	}
	if records[0].SeminarID != "sem-1" || records[0].SourceBatchID != "primary" {
		t.Errorf("row attribution lost: %+v", records[0])
	}
}

func TestNormalizeAttachesStableView(t *testing.T) {
	records := []AppearanceRecord{
		{RawName: "Dr. José Müller", RawAffiliation: "Stanford Univ", Field: "Chemistry", EventDate: "2024-10-01 14:00"},
		{RawName: "---", RawAffiliation: "", Field: "Chemistry", EventDate: "bad date"},
	}

	normalized := Normalize(records)
	if normalized[0].NameNorm != "jose muller" {
		t.Errorf("NameNorm = %q", normalized[0].NameNorm)
	}
	if normalized[0].AffiliationNorm != "stanford university" {
		t.Errorf("AffiliationNorm = %q", normalized[0].AffiliationNorm)
	}
	if !normalized[0].DayValid {
		t.Error("expected valid day for parseable date")
	}
	if normalized[1].NameNorm != "" {
		t.Errorf("punctuation-only name normalized to %q, want empty", normalized[1].NameNorm)
	}
	if normalized[1].DayValid {
		t.Error("unparseable date marked valid")
	}
}
