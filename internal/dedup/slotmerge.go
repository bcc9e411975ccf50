package dedup

import (
	"strings"

	"github.com/josecerv/search-costs-experiment-sub000/internal/ingest"
)

// MergeReport summarizes a slot-filling merge.
type MergeReport struct {
	SeminarsMerged int
	SlotsFilled    int
	Overflow       int
	Unmatched      int
}

// MergeSlots folds supplementary rows into primary rows that describe the
// same seminar. Supplementary speakers are appended into the first empty
// slot of the primary row, in source order, until slots are exhausted;
// already-filled slots are never overwritten. Slots are scanned linearly
// from slot 1. Supplementary rows with no matching primary seminar pass
// through as their own rows.
func MergeSlots(primary, supplements []ingest.Row) ([]ingest.Row, MergeReport) {
	var report MergeReport

	merged := make([]ingest.Row, len(primary))
	copy(merged, primary)
	for i := range merged {
		slots := make([]ingest.Slot, len(merged[i].Slots))
		copy(slots, merged[i].Slots)
		merged[i].Slots = slots
	}

	primaryIndex := make(map[string]int, len(merged))
	for i, row := range merged {
		if row.SeminarID == "" {
			continue
		}
		if _, exists := primaryIndex[row.SeminarID]; !exists {
			primaryIndex[row.SeminarID] = i
		}
	}

	for _, sup := range supplements {
		idx, ok := primaryIndex[sup.SeminarID]
		if !ok || sup.SeminarID == "" {
			merged = append(merged, sup)
			report.Unmatched++
			continue
		}
		target := &merged[idx]
		mergedAny := false
		for _, slot := range sup.Slots {
			if emptySlot(slot) {
				continue
			}
			pos := firstEmptySlot(target.Slots)
			if pos < 0 {
				report.Overflow++
				continue
			}
			target.Slots[pos] = slot
			report.SlotsFilled++
			mergedAny = true
		}
		if mergedAny {
			report.SeminarsMerged++
		}
	}

	return merged, report
}

func emptySlot(slot ingest.Slot) bool {
	return strings.TrimSpace(slot.Name) == ""
}

func firstEmptySlot(slots []ingest.Slot) int {
	for i, slot := range slots {
		if emptySlot(slot) {
			return i
		}
	}
	return -1
}
