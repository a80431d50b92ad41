package roster

// classify.go labels each roster row in a single stateful pass.
//
// Roster sheets interleave four kinds of rows: repeated column headers,
// section headers ("Male list (active)"), ward headers ("ICU", "(Unassigned)")
// and patient rows. Classification is a fold over the rows:
//
//	(State, row) -> (State', Classified)
//
// The rules below are evaluated in order and the first match wins. The order
// is part of the contract: "Chronic Care List" must resolve to a section even
// though "chronic" is also a ward keyword.

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// RowKind is the label assigned to a row.
type RowKind int

const (
	KindSkip RowKind = iota
	KindColumnHeader
	KindSectionHeader
	KindWardHeader
	KindData
)

func (k RowKind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindColumnHeader:
		return "column-header"
	case KindSectionHeader:
		return "section-header"
	case KindWardHeader:
		return "ward-header"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// State is the running section/ward context of one scan.
// It is a plain value; each scan owns its own copy.
type State struct {
	Section string
	Ward    string
}

// WardID combines the context into a ward identifier:
// "section - ward" when both are set, otherwise whichever is set.
func (s State) WardID() string {
	switch {
	case s.Section != "" && s.Ward != "":
		return s.Section + " - " + s.Ward
	case s.Section != "":
		return s.Section
	default:
		return s.Ward
	}
}

// Classified is a row together with its label and the context in effect
// after the row was consumed.
type Classified struct {
	Index int // zero-based row index in the grid
	Kind  RowKind
	Cells []string
	State State
}

const (
	sectionMaxLen   = 50
	sectionMaxWords = 5
	wardMaxLen      = 30
	wardMaxWords    = 3
)

var (
	headerVocabulary = []string{"room", "name", "patient", "diagnosis", "attending", "doctor", "status", "bed"}

	sectionStatusRe = regexp.MustCompile(`(?i)\((active|chronic|stable|critical)\)`)
	listWordRe      = regexp.MustCompile(`(?i)\blist\b`)

	wardKeywordRe = regexp.MustCompile(`(?i)\b(ward|unit|icu|ccu|hdu|er|ed|emergency|chronic|acute|unassigned|floor|dept|department|block|wing|bay)\b`)
	wardNumberRe  = regexp.MustCompile(`(?i)^ward\s*[0-9a-z]+`)
	shortCodeRe   = regexp.MustCompile(`^[0-9A-Za-z]{1,3}$`)
)

// rule is one classification predicate. apply returns the new state when the
// rule matches.
type rule struct {
	kind  RowKind
	match func(cells []string) bool
	apply func(s State, cells []string) State
}

// rules is the ordered classification procedure; first match wins.
var rules = []rule{
	{kind: KindSkip, match: isBlankRow},
	{kind: KindColumnHeader, match: isColumnHeader},
	{
		kind:  KindSectionHeader,
		match: isSectionHeader,
		apply: func(_ State, cells []string) State {
			return State{Section: firstCell(cells)}
		},
	},
	{
		kind:  KindWardHeader,
		match: isWardHeader,
		apply: func(s State, cells []string) State {
			s.Ward = firstCell(cells)
			return s
		},
	},
}

// Classify labels one row given the current state and returns the updated
// state. Rows that match no header rule are data rows.
func Classify(s State, cells []string) (State, RowKind) {
	for _, r := range rules {
		if !r.match(cells) {
			continue
		}
		if r.apply != nil {
			s = r.apply(s, cells)
		}
		return s, r.kind
	}
	return s, KindData
}

// Scan classifies every row of g, starting from an empty state, and returns
// the labelled rows together with the final state.
func Scan(g Grid) ([]Classified, State) {
	var s State
	out := make([]Classified, 0, len(g))
	for i, row := range g {
		var kind RowKind
		s, kind = Classify(s, row)
		out = append(out, Classified{Index: i, Kind: kind, Cells: row, State: s})
	}
	return out, s
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isColumnHeader(cells []string) bool {
	hits := 0
	for _, c := range cells {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		for _, word := range headerVocabulary {
			if strings.Contains(c, word) {
				hits++
				break
			}
		}
		if hits >= 2 {
			return true
		}
	}
	return false
}

func isSectionHeader(cells []string) bool {
	if !onlyFirstCell(cells) {
		return false
	}
	text := firstCell(cells)
	if !sectionStatusRe.MatchString(text) && !listWordRe.MatchString(text) {
		return false
	}
	return utf8.RuneCountInString(text) <= sectionMaxLen && wordCount(text) <= sectionMaxWords
}

func isWardHeader(cells []string) bool {
	if !onlyFirstCell(cells) {
		return false
	}
	text := firstCell(cells)
	if utf8.RuneCountInString(text) > wardMaxLen || wordCount(text) > wardMaxWords {
		return false
	}
	return wardKeywordRe.MatchString(text) ||
		isParenthesized(text) ||
		wardNumberRe.MatchString(text) ||
		shortCodeRe.MatchString(text)
}

// onlyFirstCell reports whether cell 0 is the only non-blank cell.
func onlyFirstCell(cells []string) bool {
	if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
		return false
	}
	for _, c := range cells[1:] {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func firstCell(cells []string) string {
	if len(cells) == 0 {
		return ""
	}
	return strings.TrimSpace(cells[0])
}

func isParenthesized(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
