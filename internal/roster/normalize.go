package roster

// normalize.go holds the per-field normalizers applied by the record builder.
// None of them fail: unparsable input falls back to a documented default.

import (
	"strconv"
	"strings"
)

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace and the ="..." formula wrapper that some exports
// use to force text.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}

// NormalizeAcuity parses an acuity score and clamps it to [1,5].
// Missing or unparsable input yields DefaultAcuity.
func NormalizeAcuity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultAcuity
	}
	switch {
	case n < 1:
		return 1
	case n > 5:
		return 5
	default:
		return n
	}
}

var codeStatuses = map[string]CodeStatus{
	"dnr":     CodeDNR,
	"dni":     CodeDNI,
	"comfort": CodeComfort,
}

// NormalizeCodeStatus maps free text to a CodeStatus, defaulting to full code.
func NormalizeCodeStatus(s string) CodeStatus {
	if cs, ok := codeStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return cs
	}
	return CodeFull
}

// NormalizeGender uses the first letter of the cell: f -> female, m -> male.
func NormalizeGender(s string) Gender {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "f"):
		return GenderFemale
	case strings.HasPrefix(s, "m"):
		return GenderMale
	default:
		return GenderOther
	}
}

// SplitAllergies splits on commas and semicolons, dropping empty entries.
func SplitAllergies(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitName resolves first and last name. When first is non-empty both values
// are used as-is; otherwise combined is split so its first token becomes the
// first name and the remaining tokens the last name. A single token is
// treated as a last name.
func SplitName(combined, first string) (firstName, lastName string) {
	if first = strings.TrimSpace(first); first != "" {
		return first, strings.TrimSpace(combined)
	}
	tokens := strings.Fields(combined)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return "", tokens[0]
	default:
		return tokens[0], strings.Join(tokens[1:], " ")
	}
}

var summaryWords = []string{"total", "count", "summary"}

// summaryReason reports why a resolved name looks like a footer or summary
// row, or "" when it looks like a patient.
func summaryReason(firstName, lastName string) string {
	if firstName == "" && lastName == "" {
		return "no name"
	}
	combined := strings.ToLower(firstName + " " + lastName)
	for _, w := range summaryWords {
		if strings.Contains(combined, w) {
			return "summary row (" + w + ")"
		}
	}
	if strings.EqualFold(lastName, "patients") {
		return "summary row (patients)"
	}
	return ""
}
