package ingest

import (
	"time"

	"github.com/josecerv/search-costs-experiment-sub000/internal/textnorm"
)

// Slot is one speaker position within a wide-format seminar row.
type Slot struct {
	Name        string
	Affiliation string
}

// Row is one wide-format seminar record as delivered by an ingestion source.
// Slots are 1-indexed from the caller's perspective; Slots[0] is slot 1.
type Row struct {
	SeminarID string
	BatchID   string
	Field     string
	Date      string
	Slots     []Slot
}

// AppearanceRecord is one observed occurrence of a person. Immutable once
// ingested.
type AppearanceRecord struct {
	RawName        string
	RawAffiliation string
	Field          string
	EventDate      string
	SeminarID      string
	SourceBatchID  string
	SlotIndex      int
}

// NormalizedAppearance pairs an appearance record with its matching-stable
// view. Day carries the calendar day with any time-of-day discarded; DayValid
// is false when the raw date could not be parsed.
type NormalizedAppearance struct {
	AppearanceRecord
	NameNorm        string
	AffiliationNorm string
	FieldNorm       string
	Day             time.Time
	DayValid        bool
}

// Flatten expands wide-format rows into one appearance record per non-empty
// slot, preserving source order and slot indices.
func Flatten(rows []Row) []AppearanceRecord {
	var out []AppearanceRecord
	for _, row := range rows {
		for i, slot := range row.Slots {
			if slot.Name == "" && slot.Affiliation == "" {
				continue
			}
			out = append(out, AppearanceRecord{
				RawName:        slot.Name,
				RawAffiliation: slot.Affiliation,
				Field:          row.Field,
				EventDate:      row.Date,
				SeminarID:      row.SeminarID,
				SourceBatchID:  row.BatchID,
				SlotIndex:      i + 1,
			})
		}
	}
	return out
}

// Normalize attaches the normalized view to each record.
func Normalize(records []AppearanceRecord) []NormalizedAppearance {
	out := make([]NormalizedAppearance, 0, len(records))
	for _, rec := range records {
		day, ok := ParseCalendarDay(rec.EventDate)
		out = append(out, NormalizedAppearance{
			AppearanceRecord: rec,
			NameNorm:         textnorm.Name(rec.RawName),
			AffiliationNorm:  textnorm.Affiliation(rec.RawAffiliation),
			FieldNorm:        textnorm.Field(rec.Field),
			Day:              day,
			DayValid:         ok,
		})
	}
	return out
}
