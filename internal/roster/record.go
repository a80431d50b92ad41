package roster

import (
	"fmt"
	"sort"
	"strings"
)

// Grid is a raw cell grid: ordered rows of ordered text cells.
type Grid [][]string

// Field names a semantic patient attribute that a column can be mapped to.
type Field string

const (
	FieldBedNumber          Field = "bedNumber"
	FieldLastName           Field = "lastName"
	FieldFirstName          Field = "firstName"
	FieldMRN                Field = "mrn"
	FieldPrimaryDiagnosis   Field = "primaryDiagnosis"
	FieldAttendingPhysician Field = "attendingPhysician"
	FieldTeam               Field = "team"
	FieldWardID             Field = "wardId"
	FieldGender             Field = "gender"
	FieldDateOfBirth        Field = "dateOfBirth"
	FieldAllergies          Field = "allergies"
	FieldCodeStatus         Field = "codeStatus"
	FieldAcuity             Field = "acuity"
	FieldStatus             Field = "status"
)

// fieldLabels holds the human-readable column heading for each field.
var fieldLabels = map[Field]string{
	FieldBedNumber:          "Bed",
	FieldLastName:           "Last Name",
	FieldFirstName:          "First Name",
	FieldMRN:                "MRN",
	FieldPrimaryDiagnosis:   "Diagnosis",
	FieldAttendingPhysician: "Attending",
	FieldTeam:               "Team",
	FieldWardID:             "Ward",
	FieldGender:             "Gender",
	FieldDateOfBirth:        "Date of Birth",
	FieldAllergies:          "Allergies",
	FieldCodeStatus:         "Code Status",
	FieldAcuity:             "Acuity",
	FieldStatus:             "Status",
}

// Fields returns every known field in a stable order.
func Fields() []Field {
	out := make([]Field, 0, len(fieldLabels))
	for f := range fieldLabels {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether f is a recognised field name.
func (f Field) Known() bool {
	_, ok := fieldLabels[f]
	return ok
}

// Label returns the display heading for f.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// ColumnMapping pairs a field with a spreadsheet column letter.
type ColumnMapping struct {
	Field  Field  `json:"field"`
	Column string `json:"column"`
}

// Mapping is the active field map for one import or export.
type Mapping []ColumnMapping

// Validate checks that every entry names a known field and a column letter
// no wider than MaxColumnIndex, and that no field is mapped twice.
func (m Mapping) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("mapping is empty")
	}
	seen := make(map[Field]bool, len(m))
	for _, cm := range m {
		if !cm.Field.Known() {
			return fmt.Errorf("unknown mapping field %q", cm.Field)
		}
		if i := LetterToIndex(cm.Column); i < 0 || i > MaxColumnIndex {
			return fmt.Errorf("invalid mapping column %q for field %s", cm.Column, cm.Field)
		}
		if seen[cm.Field] {
			return fmt.Errorf("duplicate mapping field %q", cm.Field)
		}
		seen[cm.Field] = true
	}
	return nil
}

// Indexes resolves the mapping into field -> zero-based column index.
// Entries with an unparsable or out-of-range column are left out.
func (m Mapping) Indexes() map[Field]int {
	idx := make(map[Field]int, len(m))
	for _, cm := range m {
		if i := LetterToIndex(cm.Column); i >= 0 && i <= MaxColumnIndex {
			idx[cm.Field] = i
		}
	}
	return idx
}

// Has reports whether f is mapped.
func (m Mapping) Has(f Field) bool {
	_, ok := m.Indexes()[f]
	return ok
}

// ParseMapping reads "field=Col" pairs, as accepted on the command line.
func ParseMapping(pairs []string) (Mapping, error) {
	m := make(Mapping, 0, len(pairs))
	for _, p := range pairs {
		field, col, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("mapping %q: expected field=Column", p)
		}
		m = append(m, ColumnMapping{
			Field:  Field(strings.TrimSpace(field)),
			Column: strings.ToUpper(strings.TrimSpace(col)),
		})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Gender is the normalized patient gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// CodeStatus is the resuscitation status of a patient.
type CodeStatus string

const (
	CodeFull    CodeStatus = "full"
	CodeDNR     CodeStatus = "DNR"
	CodeDNI     CodeStatus = "DNI"
	CodeComfort CodeStatus = "comfort"
)

// DefaultAcuity is used when the acuity cell is missing or unparsable.
const DefaultAcuity = 3

// Record is a canonical patient record produced by an import.
// Records are created once per import and not mutated afterwards.
type Record struct {
	BedNumber          string            `json:"bedNumber"`
	LastName           string            `json:"lastName"`
	FirstName          string            `json:"firstName"`
	MRN                string            `json:"mrn"`
	PrimaryDiagnosis   string            `json:"primaryDiagnosis"`
	AttendingPhysician string            `json:"attendingPhysician"`
	Team               string            `json:"team"`
	WardID             string            `json:"wardId"`
	Gender             Gender            `json:"gender"`
	DateOfBirth        string            `json:"dateOfBirth"`
	Allergies          []string          `json:"allergies"`
	CodeStatus         CodeStatus        `json:"codeStatus"`
	Acuity             int               `json:"acuity"`
	Status             string            `json:"status,omitempty"`
	Raw                map[string]string `json:"raw,omitempty"`
}

// FullName returns "First Last", omitting empty parts.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
