package sheets

import (
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

// Layout is the rectangular value grid of an export: a header row followed
// by one row per record, with each field at its mapped column.
type Layout struct {
	Rows [][]any
	// Columns is the grid width (highest mapped column + 1).
	Columns int
	// Field -> zero-based column.
	Index map[roster.Field]int
}

// DataRows is the number of record rows, excluding the header.
func (l *Layout) DataRows() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return len(l.Rows) - 1
}

// Range returns the A1 range covering the layout on tab.
func (l *Layout) Range(tab string) string {
	last := roster.IndexToLetter(max(l.Columns-1, 0))
	return quoteTab(tab) + "!A1:" + last + strconv.Itoa(len(l.Rows))
}

// StaleRange returns the open-ended A1 range below the layout, across the
// layout's columns. Rows left there by a longer earlier export are cleared.
func (l *Layout) StaleRange(tab string) string {
	last := roster.IndexToLetter(max(l.Columns-1, 0))
	return quoteTab(tab) + "!A" + strconv.Itoa(len(l.Rows)+1) + ":" + last
}

// BuildLayout renders records into an export grid. The input slice is not
// modified. Unmapped columns between mapped ones stay empty.
func BuildLayout(records []roster.Record, m roster.Mapping) *Layout {
	idx := m.Indexes()
	width := 0
	for _, i := range idx {
		width = max(width, i+1)
	}

	l := &Layout{Columns: width, Index: idx, Rows: make([][]any, 0, len(records)+1)}

	header := emptyRow(width)
	for f, i := range idx {
		header[i] = f.Label()
	}
	l.Rows = append(l.Rows, header)

	for _, r := range records {
		row := emptyRow(width)
		for f, i := range idx {
			row[i] = FieldValue(r, f)
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

func emptyRow(n int) []any {
	row := make([]any, n)
	for i := range row {
		row[i] = ""
	}
	return row
}

// FieldValue returns the exported cell value of one field. Lists are joined
// with ", ", dates use M/D/YYYY, acuity stays numeric.
func FieldValue(r roster.Record, f roster.Field) any {
	switch f {
	case roster.FieldBedNumber:
		return r.BedNumber
	case roster.FieldLastName:
		return r.LastName
	case roster.FieldFirstName:
		return r.FirstName
	case roster.FieldMRN:
		return r.MRN
	case roster.FieldPrimaryDiagnosis:
		return r.PrimaryDiagnosis
	case roster.FieldAttendingPhysician:
		return r.AttendingPhysician
	case roster.FieldTeam:
		return r.Team
	case roster.FieldWardID:
		return r.WardID
	case roster.FieldGender:
		return string(r.Gender)
	case roster.FieldDateOfBirth:
		return FormatDate(r.DateOfBirth)
	case roster.FieldAllergies:
		return strings.Join(r.Allergies, ", ")
	case roster.FieldCodeStatus:
		return string(r.CodeStatus)
	case roster.FieldAcuity:
		return r.Acuity
	case roster.FieldStatus:
		return r.Status
	default:
		return ""
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// FormatDate renders a date-like value as M/D/YYYY. Values that do not
// parse as a date are returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return s
}
