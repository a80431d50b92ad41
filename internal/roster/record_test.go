package roster

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]string{"lastName=b", " mrn = C "})
	if err != nil {
		t.Fatalf("ParseMapping() error = %v", err)
	}
	want := Mapping{{Field: FieldLastName, Column: "B"}, {Field: FieldMRN, Column: "C"}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("ParseMapping() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[Field]int{FieldLastName: 1, FieldMRN: 2}, m.Indexes()); diff != "" {
		t.Errorf("Indexes() mismatch (-want +got):\n%s", diff)
	}
	if !m.Has(FieldMRN) || m.Has(FieldAcuity) {
		t.Error("Has() reports wrong fields")
	}
}

func TestMappingValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Mapping
		wantErr string
	}{
		{"empty", Mapping{}, "empty"},
		{"unknown field", Mapping{{Field: "shoeSize", Column: "A"}}, "unknown mapping field"},
		{"bad column", Mapping{{Field: FieldMRN, Column: "A1"}}, "invalid mapping column"},
		{"duplicate field", Mapping{{Field: FieldMRN, Column: "A"}, {Field: FieldMRN, Column: "B"}}, "duplicate"},
		{"valid", Mapping{{Field: FieldMRN, Column: "A"}, {Field: FieldLastName, Column: "AA"}}, ""},
		{"widest column", Mapping{{Field: FieldMRN, Column: "ZZZ"}}, ""},
		{"past widest column", Mapping{{Field: FieldMRN, Column: "AAAA"}}, "invalid mapping column"},
		{"huge column", Mapping{{Field: FieldMRN, Column: "ZZZZZZZZZZZZ"}}, "invalid mapping column"},
		{"overflowing column", Mapping{{Field: FieldMRN, Column: strings.Repeat("Z", 40)}}, "invalid mapping column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMappingIndexes_SkipsOutOfRange(t *testing.T) {
	m := Mapping{{Field: FieldMRN, Column: "ZZZ"}, {Field: FieldLastName, Column: "ZZZZZZZZZZZZ"}}
	if diff := cmp.Diff(map[Field]int{FieldMRN: MaxColumnIndex}, m.Indexes()); diff != "" {
		t.Errorf("Indexes() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMapping_Malformed(t *testing.T) {
	if _, err := ParseMapping([]string{"lastName"}); err == nil {
		t.Error("ParseMapping(no '=') error = nil")
	}
}

func TestFields(t *testing.T) {
	fields := Fields()
	if len(fields) != 14 {
		t.Fatalf("Fields() = %d entries, want 14", len(fields))
	}
	for _, f := range fields {
		if !f.Known() || f.Label() == "" {
			t.Errorf("field %q has no label", f)
		}
	}
	if Field("nope").Label() != "nope" {
		t.Error("unknown field label should echo the name")
	}
}

func TestRecordFullName(t *testing.T) {
	if got := (Record{FirstName: "Jane", LastName: "Doe"}).FullName(); got != "Jane Doe" {
		t.Errorf("FullName() = %q", got)
	}
	if got := (Record{LastName: "Doe"}).FullName(); got != "Doe" {
		t.Errorf("FullName() = %q", got)
	}
}
