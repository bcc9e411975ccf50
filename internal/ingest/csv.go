package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Wide-format seminar CSV columns. Slot columns are speaker_N and
// affiliation_N pairs, 1-indexed, in any order after the fixed columns.
const (
	colSeminarID = "seminar_id"
	colField     = "field"
	colDate      = "date"
)

// ReadRows parses a wide-format seminar CSV. The header names the fixed
// columns (seminar_id, field, date) plus any number of speaker_N /
// affiliation_N pairs. The supplied batch ID is stamped onto every row.
func ReadRows(r io.Reader, batchID string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	layout, err := parseRowHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, layout.row(record, batchID))
	}
	return rows, nil
}

type rowLayout struct {
	seminarID int
	field     int
	date      int
	slots     []slotColumns // ordered by slot index
}

type slotColumns struct {
	name        int
	affiliation int
}

func parseRowHeader(header []string) (rowLayout, error) {
	layout := rowLayout{seminarID: -1, field: -1, date: -1}
	slotNames := make(map[int]int)
	slotAffils := make(map[int]int)
	maxSlot := 0

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case colSeminarID:
			layout.seminarID = i
		case colField:
			layout.field = i
		case colDate:
			layout.date = i
		default:
			if idx, ok := slotIndex(name, "speaker_"); ok {
				slotNames[idx] = i
				if idx > maxSlot {
					maxSlot = idx
				}
			} else if idx, ok := slotIndex(name, "affiliation_"); ok {
				slotAffils[idx] = i
				if idx > maxSlot {
					maxSlot = idx
				}
			}
		}
	}

	if layout.seminarID < 0 {
		return layout, fmt.Errorf("header missing %s column", colSeminarID)
	}
	if layout.field < 0 {
		return layout, fmt.Errorf("header missing %s column", colField)
	}
	if maxSlot == 0 {
		return layout, fmt.Errorf("header has no speaker_N columns")
	}

	layout.slots = make([]slotColumns, maxSlot)
	for i := range layout.slots {
		layout.slots[i] = slotColumns{name: -1, affiliation: -1}
		if col, ok := slotNames[i+1]; ok {
			layout.slots[i].name = col
		}
		if col, ok := slotAffils[i+1]; ok {
			layout.slots[i].affiliation = col
		}
	}
	return layout, nil
}

func slotIndex(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(name[len(prefix):])
	if err != nil || idx < 1 {
		return 0, false
	}
	return idx, true
}

func (l rowLayout) row(record []string, batchID string) Row {
	row := Row{
		SeminarID: fieldAt(record, l.seminarID),
		BatchID:   batchID,
		Field:     fieldAt(record, l.field),
		Date:      fieldAt(record, l.date),
		Slots:     make([]Slot, len(l.slots)),
	}
	for i, cols := range l.slots {
		row.Slots[i] = Slot{
			Name:        fieldAt(record, cols.name),
			Affiliation: fieldAt(record, cols.affiliation),
		}
	}
	return row
}

func fieldAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// Reference is one external registry entry as read from a reference CSV.
type Reference struct {
	RefID         string
	Name          string
	Affiliation   string
	Field         string
	CategoryLabel string
}

// ReadReferences parses a reference CSV with columns ref_id, name,
// affiliation, field, and optional category.
func ReadReferences(r io.Reader) ([]Reference, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, raw := range header {
		cols[strings.ToLower(strings.TrimSpace(raw))] = i
	}
	refIDCol, ok := cols["ref_id"]
	if !ok {
		return nil, fmt.Errorf("header missing ref_id column")
	}
	nameCol, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("header missing name column")
	}
	affilCol := colOrNeg(cols, "affiliation")
	fieldCol, ok := cols["field"]
	if !ok {
		return nil, fmt.Errorf("header missing field column")
	}
	categoryCol := colOrNeg(cols, "category")

	var refs []Reference
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		refs = append(refs, Reference{
			RefID:         fieldAt(record, refIDCol),
			Name:          fieldAt(record, nameCol),
			Affiliation:   fieldAt(record, affilCol),
			Field:         fieldAt(record, fieldCol),
			CategoryLabel: fieldAt(record, categoryCol),
		})
	}
	return refs, nil
}

func colOrNeg(cols map[string]int, name string) int {
	if idx, ok := cols[name]; ok {
		return idx
	}
	return -1
}
