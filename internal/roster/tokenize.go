package roster

// tokenize.go splits delimited text into a Grid.
//
// The tokenizer is deliberately forgiving: roster exports are hand edited and
// frequently contain stray quotes. It never fails; malformed quoting simply
// produces a degenerate split instead of an error.

import "strings"

// Tokenize splits comma-separated text into a Grid.
func Tokenize(text string) Grid {
	return TokenizeDelimited(text, ',')
}

// TokenizeDelimited splits text on delim into a Grid.
//
// Quoted fields may contain the delimiter, newlines and doubled quotes ("" -> ").
// Both \n and \r\n end a row. A final row without a trailing newline is still
// emitted; a trailing newline does not produce an empty last row.
func TokenizeDelimited(text string, delim rune) Grid {
	var (
		grid     Grid
		row      []string
		field    strings.Builder
		inQuotes bool
		dirty    bool // current row has content not yet flushed
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		grid = append(grid, row)
		row = nil
		dirty = false
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inQuotes {
			if r == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteRune(r)
			continue
		}

		switch {
		case r == '"' && field.Len() == 0:
			inQuotes = true
			dirty = true
		case r == delim:
			endField()
			dirty = true
		case r == '\r' && i+1 < len(runes) && runes[i+1] == '\n':
			i++
			endRow()
		case r == '\n':
			endRow()
		default:
			field.WriteRune(r)
			dirty = true
		}
	}

	if dirty || field.Len() > 0 || len(row) > 0 {
		endRow()
	}
	return grid
}

// Width returns the length of the longest row.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
