package roster

import (
	"math"
	"strings"
)

// MaxColumnIndex is the zero-based index of "ZZZ", the widest column both
// Google Sheets and Excel address.
const MaxColumnIndex = 18277

// LetterToIndex converts a spreadsheet column reference ("A", "AB") to its
// zero-based index. Input is case-insensitive. Returns -1 for anything that
// is not a column reference.
func LetterToIndex(col string) int {
	col = strings.TrimSpace(col)
	if col == "" {
		return -1
	}
	n := 0
	for _, r := range col {
		if n > (math.MaxInt-26)/26 {
			return -1
		}
		switch {
		case r >= 'A' && r <= 'Z':
			n = n*26 + int(r-'A') + 1
		case r >= 'a' && r <= 'z':
			n = n*26 + int(r-'a') + 1
		default:
			return -1
		}
	}
	return n - 1
}

// IndexToLetter converts a zero-based column index to its spreadsheet
// reference (0 -> "A", 26 -> "AA"). Negative indexes yield "".
func IndexToLetter(idx int) string {
	if idx < 0 {
		return ""
	}
	var buf [14]byte
	i := len(buf)
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}
