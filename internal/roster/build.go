package roster

import (
	"log/slog"
	"strings"
)

// DroppedRow describes a data row that produced no record.
type DroppedRow struct {
	Row    int      `json:"row"` // 1-based sheet row number
	Reason string   `json:"reason"`
	Cells  []string `json:"cells"`
}

// ScanStats counts rows by classification.
type ScanStats struct {
	Rows           int `json:"rows"`
	Skipped        int `json:"skipped"`
	ColumnHeaders  int `json:"columnHeaders"`
	SectionHeaders int `json:"sectionHeaders"`
	WardHeaders    int `json:"wardHeaders"`
	DataRows       int `json:"dataRows"`
}

// ParseResult is the output of one import pass.
type ParseResult struct {
	Records    []Record       `json:"records"`
	WardCounts map[string]int `json:"wardCounts"`
	Dropped    []DroppedRow   `json:"dropped"`
	Stats      ScanStats      `json:"stats"`
}

// Parse tokenizes CSV text and builds records from it.
func Parse(text string, m Mapping) *ParseResult {
	return Build(Tokenize(text), m)
}

// Build classifies every row of g and converts data rows into records using
// the field mapping m. Records keep sheet order. Rows without a usable name,
// and footer/summary rows, are left out and reported in Dropped.
func Build(g Grid, m Mapping) *ParseResult {
	idx := m.Indexes()
	res := &ParseResult{
		Records:    make([]Record, 0),
		WardCounts: make(map[string]int),
		Dropped:    make([]DroppedRow, 0),
	}

	classified, _ := Scan(g)
	for _, c := range classified {
		res.Stats.Rows++
		switch c.Kind {
		case KindSkip:
			res.Stats.Skipped++
			continue
		case KindColumnHeader:
			res.Stats.ColumnHeaders++
			continue
		case KindSectionHeader:
			res.Stats.SectionHeaders++
			continue
		case KindWardHeader:
			res.Stats.WardHeaders++
			continue
		}

		res.Stats.DataRows++
		rec, reason := buildRecord(c, idx)
		if reason != "" {
			res.Dropped = append(res.Dropped, DroppedRow{Row: c.Index + 1, Reason: reason, Cells: c.Cells})
			continue
		}
		res.Records = append(res.Records, rec)
		res.WardCounts[rec.WardID]++
	}

	slog.Debug("roster parsed",
		"rows", res.Stats.Rows,
		"records", len(res.Records),
		"dropped", len(res.Dropped),
		"wards", len(res.WardCounts),
	)
	return res
}

// buildRecord converts one data row. A non-empty reason means the row was
// excluded.
func buildRecord(c Classified, idx map[Field]int) (Record, string) {
	cell := func(f Field) string {
		i, ok := idx[f]
		if !ok || i >= len(c.Cells) {
			return ""
		}
		return CleanCell(c.Cells[i])
	}

	firstName, lastName := SplitName(cell(FieldLastName), cell(FieldFirstName))
	if reason := summaryReason(firstName, lastName); reason != "" {
		return Record{}, reason
	}

	wardID := cell(FieldWardID)
	if wardID == "" {
		wardID = c.State.WardID()
	}

	raw := make(map[string]string, len(c.Cells))
	for i, v := range c.Cells {
		raw[IndexToLetter(i)] = v
	}

	return Record{
		BedNumber:          cell(FieldBedNumber),
		LastName:           lastName,
		FirstName:          firstName,
		MRN:                cell(FieldMRN),
		PrimaryDiagnosis:   cell(FieldPrimaryDiagnosis),
		AttendingPhysician: cell(FieldAttendingPhysician),
		Team:               cell(FieldTeam),
		WardID:             wardID,
		Gender:             NormalizeGender(cell(FieldGender)),
		DateOfBirth:        cell(FieldDateOfBirth),
		Allergies:          SplitAllergies(cell(FieldAllergies)),
		CodeStatus:         NormalizeCodeStatus(cell(FieldCodeStatus)),
		Acuity:             NormalizeAcuity(cell(FieldAcuity)),
		Status:             strings.ToLower(cell(FieldStatus)),
		Raw:                raw,
	}, ""
}
