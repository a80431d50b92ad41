package sheets

import (
	"sort"
	"strconv"

	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

// FormatRequests builds the formatting batch for an export written to the
// tab with id sheetID. Order: header style, freeze, auto-resize, doctor
// tints, acuity rules, status rules, borders.
func FormatRequests(sheetID int64, l *Layout, records []roster.Record, colors DoctorColors) []*sheets.Request {
	if l.Columns == 0 {
		return nil
	}
	rows := int64(len(l.Rows))
	cols := int64(l.Columns)

	reqs := []*sheets.Request{
		headerStyle(sheetID, cols),
		freezeHeader(sheetID),
		autoResize(sheetID, cols),
	}

	if l.DataRows() > 0 {
		reqs = append(reqs, doctorTints(sheetID, l, records, colors)...)

		var rules []*sheets.ConditionalFormatRule
		if i, ok := l.Index[roster.FieldAcuity]; ok {
			rules = append(rules, acuityRules(dataColumn(sheetID, rows, int64(i)))...)
		}
		if i, ok := l.Index[roster.FieldStatus]; ok {
			rules = append(rules, statusRules(dataColumn(sheetID, rows, int64(i)))...)
		}
		for n, rule := range rules {
			reqs = append(reqs, &sheets.Request{
				AddConditionalFormatRule: &sheets.AddConditionalFormatRuleRequest{
					Rule:  rule,
					Index: int64(n),
				},
			})
		}
	}

	reqs = append(reqs, borders(sheetID, rows, cols))
	return reqs
}

func gridRange(sheetID, r0, r1, c0, c1 int64) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    r0,
		EndRowIndex:      r1,
		StartColumnIndex: c0,
		EndColumnIndex:   c1,
	}
}

func dataColumn(sheetID, rows, col int64) *sheets.GridRange {
	return gridRange(sheetID, 1, rows, col, col+1)
}

func headerStyle(sheetID, cols int64) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: gridRange(sheetID, 0, 1, 0, cols),
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					BackgroundColor:     headerColors.Background.API(),
					HorizontalAlignment: "CENTER",
					TextFormat: &sheets.TextFormat{
						Bold:            true,
						ForegroundColor: headerColors.Foreground.API(),
					},
				},
			},
			Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
		},
	}
}

func freezeHeader(sheetID int64) *sheets.Request {
	return &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:        sheetID,
				GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
			},
			Fields: "gridProperties.frozenRowCount",
		},
	}
}

func autoResize(sheetID, cols int64) *sheets.Request {
	return &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   cols,
			},
		},
	}
}

// doctorTints colors each row whose attending physician has an assigned
// color: the row gets the tint, the physician cell the full color in bold.
func doctorTints(sheetID int64, l *Layout, records []roster.Record, colors DoctorColors) []*sheets.Request {
	if len(colors) == 0 {
		return nil
	}
	physCol, mapped := l.Index[roster.FieldAttendingPhysician]
	cols := int64(l.Columns)

	var reqs []*sheets.Request
	for i, r := range records {
		c, ok := colors.Lookup(r.AttendingPhysician)
		if !ok {
			continue
		}
		row := int64(i + 1)
		reqs = append(reqs, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: gridRange(sheetID, row, row+1, 0, cols),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{BackgroundColor: Tint(c).API()},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		})
		if !mapped {
			continue
		}
		col := int64(physCol)
		reqs = append(reqs, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: gridRange(sheetID, row, row+1, col, col+1),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: Tint(c).API(),
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: c.API(),
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		})
	}
	return reqs
}

func colorRule(rng *sheets.GridRange, condType, value string, p ColorPair) *sheets.ConditionalFormatRule {
	return &sheets.ConditionalFormatRule{
		Ranges: []*sheets.GridRange{rng},
		BooleanRule: &sheets.BooleanRule{
			Condition: &sheets.BooleanCondition{
				Type:   condType,
				Values: []*sheets.ConditionValue{{UserEnteredValue: value}},
			},
			Format: &sheets.CellFormat{
				BackgroundColor: p.Background.API(),
				TextFormat:      &sheets.TextFormat{ForegroundColor: p.Foreground.API()},
			},
		},
	}
}

func acuityRules(rng *sheets.GridRange) []*sheets.ConditionalFormatRule {
	rules := make([]*sheets.ConditionalFormatRule, 0, len(AcuityColors))
	for score := 1; score <= 5; score++ {
		rules = append(rules, colorRule(rng, "NUMBER_EQ", strconv.Itoa(score), AcuityColors[score]))
	}
	return rules
}

func statusRules(rng *sheets.GridRange) []*sheets.ConditionalFormatRule {
	states := make([]string, 0, len(StatusColors))
	for s := range StatusColors {
		states = append(states, s)
	}
	sort.Strings(states)

	rules := make([]*sheets.ConditionalFormatRule, 0, len(states))
	for _, s := range states {
		rules = append(rules, colorRule(rng, "TEXT_EQ", s, StatusColors[s]))
	}
	return rules
}

func borders(sheetID, rows, cols int64) *sheets.Request {
	b := &sheets.Border{Style: "SOLID", Color: borderColor.API()}
	return &sheets.Request{
		UpdateBorders: &sheets.UpdateBordersRequest{
			Range:           gridRange(sheetID, 0, rows, 0, cols),
			Top:             b,
			Bottom:          b,
			Left:            b,
			Right:           b,
			InnerHorizontal: b,
			InnerVertical:   b,
		},
	}
}
