package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeAcuity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"4", 4},
		{" 5 ", 5},
		{"0", 1},
		{"-3", 1},
		{"9", 5},
		{"", 3},
		{"abc", 3},
		{"2.5", 3},
	}
	for _, tt := range tests {
		if got := NormalizeAcuity(tt.in); got != tt.want {
			t.Errorf("NormalizeAcuity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCodeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want CodeStatus
	}{
		{"DNR", CodeDNR},
		{"dnr", CodeDNR},
		{" Dni ", CodeDNI},
		{"comfort", CodeComfort},
		{"COMFORT", CodeComfort},
		{"full", CodeFull},
		{"", CodeFull},
		{"DNR/DNI", CodeFull},
	}
	for _, tt := range tests {
		if got := NormalizeCodeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeCodeStatus(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
	}{
		{"F", GenderFemale},
		{"female", GenderFemale},
		{"M", GenderMale},
		{" Male", GenderMale},
		{"", GenderOther},
		{"X", GenderOther},
	}
	for _, tt := range tests {
		if got := NormalizeGender(tt.in); got != tt.want {
			t.Errorf("NormalizeGender(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSplitAllergies(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"PCN", []string{"PCN"}},
		{"PCN, Sulfa", []string{"PCN", "Sulfa"}},
		{"PCN; Sulfa;; latex ,", []string{"PCN", "Sulfa", "latex"}},
		{" , ; ", []string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitAllergies(tt.in)); diff != "" {
			t.Errorf("SplitAllergies(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jane  ", "Jane"},
		{`="00123"`, "00123"},
		{`= "x"`, `= "x"`},
		{`="`, `="`},
		{`""`, `""`},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummaryReason(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"", "", "no name"},
		{"Jane", "Doe", ""},
		{"", "Total", "summary row (total)"},
		{"Patient", "Count", "summary row (count)"},
		{"42", "patients", "summary row (patients)"},
		{"", "Patients", "summary row (patients)"},
	}
	for _, tt := range tests {
		if got := summaryReason(tt.first, tt.last); got != tt.want {
			t.Errorf("summaryReason(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}
