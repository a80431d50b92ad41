package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mapping(pairs ...string) Mapping {
	m, err := ParseMapping(pairs)
	if err != nil {
		panic(err)
	}
	return m
}

// ----------------------------------------------------------------------------
// End to end
// ----------------------------------------------------------------------------

func TestBuild_EndToEnd(t *testing.T) {
	g := Grid{
		{"Ward 10"},
		{"Room", "Name", "MRN", "Diagnosis"},
		{"", "Jane Doe", "123456", "CAP"},
		{"(Unassigned)"},
		{"", "John X", "", "Sepsis"},
	}
	m := mapping("bedNumber=A", "lastName=B", "mrn=C", "primaryDiagnosis=D")

	res := Build(g, m)

	want := []Record{
		{
			FirstName:        "Jane",
			LastName:         "Doe",
			MRN:              "123456",
			PrimaryDiagnosis: "CAP",
			WardID:           "Ward 10",
			Gender:           GenderOther,
			Allergies:        []string{},
			CodeStatus:       CodeFull,
			Acuity:           3,
		},
		{
			FirstName:        "John",
			LastName:         "X",
			PrimaryDiagnosis: "Sepsis",
			WardID:           "(Unassigned)",
			Gender:           GenderOther,
			Allergies:        []string{},
			CodeStatus:       CodeFull,
			Acuity:           3,
		},
	}

	if diff := cmp.Diff(want, res.Records, cmpopts.IgnoreFields(Record{}, "Raw")); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if got := res.Records[0].Raw["B"]; got != "Jane Doe" {
		t.Errorf("Raw[B] = %q, want %q", got, "Jane Doe")
	}
	if diff := cmp.Diff(map[string]int{"Ward 10": 1, "(Unassigned)": 1}, res.WardCounts); diff != "" {
		t.Errorf("ward counts mismatch (-want +got):\n%s", diff)
	}
	if res.Stats.ColumnHeaders != 1 || res.Stats.WardHeaders != 2 || res.Stats.DataRows != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	text := "Male list (active)\nICU\nRoom,Name,Acuity,Allergies\n1,Jane Doe,4,\"PCN; Sulfa\"\n2,Total 2 patients,,\n"
	m := mapping("bedNumber=A", "lastName=B", "acuity=C", "allergies=D")

	first := Parse(text, m)
	second := Parse(text, m)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parse not idempotent (-first +second):\n%s", diff)
	}
	if len(first.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(first.Records))
	}
	if diff := cmp.Diff([]string{"PCN", "Sulfa"}, first.Records[0].Allergies); diff != "" {
		t.Errorf("allergies mismatch (-want +got):\n%s", diff)
	}
}

// ----------------------------------------------------------------------------
// Names and exclusion
// ----------------------------------------------------------------------------

func TestBuild_Names(t *testing.T) {
	tests := []struct {
		name      string
		mapping   Mapping
		row       []string
		wantFirst string
		wantLast  string
		wantDrop  bool
	}{
		{
			name:      "combined name split",
			mapping:   mapping("lastName=A"),
			row:       []string{"Taher Hasan"},
			wantFirst: "Taher",
			wantLast:  "Hasan",
		},
		{
			name:      "combined name with several tokens",
			mapping:   mapping("lastName=A", "mrn=B"),
			row:       []string{"Mary Ann van Dyke", "1"},
			wantFirst: "Mary",
			wantLast:  "Ann van Dyke",
		},
		{
			name:     "single token is last name",
			mapping:  mapping("lastName=A", "mrn=B"),
			row:      []string{"Hasan", "1"},
			wantLast: "Hasan",
		},
		{
			name:      "separate first name column",
			mapping:   mapping("lastName=A", "firstName=B"),
			row:       []string{"van Dyke", "Mary Ann"},
			wantFirst: "Mary Ann",
			wantLast:  "van Dyke",
		},
		{
			name:      "empty first name column falls back to split",
			mapping:   mapping("lastName=A", "firstName=B", "mrn=C"),
			row:       []string{"Jane Doe", "", "9"},
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
		{
			name:     "no name dropped",
			mapping:  mapping("lastName=A", "mrn=B"),
			row:      []string{"", "123"},
			wantDrop: true,
		},
		{
			name:     "total footer dropped",
			mapping:  mapping("lastName=A", "mrn=B"),
			row:      []string{"Total 42 patients", "x"},
			wantDrop: true,
		},
		{
			name:     "patients last name dropped",
			mapping:  mapping("lastName=A", "mrn=B"),
			row:      []string{"42 Patients", "x"},
			wantDrop: true,
		},
		{
			name:     "summary row dropped",
			mapping:  mapping("lastName=A", "mrn=B"),
			row:      []string{"Summary", "x"},
			wantDrop: true,
		},
		{
			name:      "formula wrapper removed",
			mapping:   mapping("lastName=A", "mrn=B"),
			row:       []string{`="Jane Doe"`, "1"},
			wantFirst: "Jane",
			wantLast:  "Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Build(Grid{tt.row}, tt.mapping)
			if tt.wantDrop {
				if len(res.Records) != 0 {
					t.Fatalf("records = %+v, want none", res.Records)
				}
				if len(res.Dropped) != 1 || res.Dropped[0].Row != 1 {
					t.Errorf("dropped = %+v, want row 1", res.Dropped)
				}
				return
			}
			if len(res.Records) != 1 {
				t.Fatalf("records = %d, want 1 (dropped %+v)", len(res.Records), res.Dropped)
			}
			r := res.Records[0]
			if r.FirstName != tt.wantFirst || r.LastName != tt.wantLast {
				t.Errorf("name = (%q, %q), want (%q, %q)", r.FirstName, r.LastName, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Ward resolution
// ----------------------------------------------------------------------------

func TestBuild_WardID(t *testing.T) {
	g := Grid{
		{"Female list (stable)"},
		{"HDU"},
		{"1", "Jane Doe", ""},
		{"2", "Ann Lee", "Ward 7"},
		{"Male list (active)"},
		{"3", "Bob Ray", ""},
	}
	res := Build(g, mapping("bedNumber=A", "lastName=B", "wardId=C"))

	want := []string{"Female list (stable) - HDU", "Ward 7", "Male list (active)"}
	got := make([]string, len(res.Records))
	for i, r := range res.Records {
		got[i] = r.WardID
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ward ids mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_MissingColumnsUseDefaults(t *testing.T) {
	// acuity column mapped beyond the row width
	res := Build(Grid{{"1", "Jane Doe"}}, mapping("bedNumber=A", "lastName=B", "acuity=Z", "codeStatus=Y"))
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Records))
	}
	r := res.Records[0]
	if r.Acuity != DefaultAcuity || r.CodeStatus != CodeFull || r.Gender != GenderOther {
		t.Errorf("defaults = (%d, %s, %s)", r.Acuity, r.CodeStatus, r.Gender)
	}
}

func TestBuild_FullRow(t *testing.T) {
	m := mapping(
		"bedNumber=A", "lastName=B", "mrn=C", "primaryDiagnosis=D", "attendingPhysician=E",
		"team=F", "gender=G", "dateOfBirth=H", "allergies=I", "codeStatus=J", "acuity=K", "status=L",
	)
	row := []string{"12B", "Jane Doe", "MRN1", "CHF", "Dr. Smith", "Blue", "F", "1950-02-03", "PCN, latex;", "dnr", "9", "Critical"}

	res := Build(Grid{row}, m)
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Records))
	}

	want := Record{
		BedNumber:          "12B",
		FirstName:          "Jane",
		LastName:           "Doe",
		MRN:                "MRN1",
		PrimaryDiagnosis:   "CHF",
		AttendingPhysician: "Dr. Smith",
		Team:               "Blue",
		Gender:             GenderFemale,
		DateOfBirth:        "1950-02-03",
		Allergies:          []string{"PCN", "latex"},
		CodeStatus:         CodeDNR,
		Acuity:             5,
		Status:             "critical",
	}
	if diff := cmp.Diff(want, res.Records[0], cmpopts.IgnoreFields(Record{}, "Raw")); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if len(res.Records[0].Raw) != len(row) {
		t.Errorf("raw cells = %d, want %d", len(res.Records[0].Raw), len(row))
	}
	if res.Records[0].Raw["L"] != "Critical" {
		t.Errorf("Raw[L] = %q", res.Records[0].Raw["L"])
	}
}
