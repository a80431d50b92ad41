package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

func kinds(reqs []*sheets.Request) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		switch {
		case r.RepeatCell != nil:
			out[i] = "repeat"
		case r.UpdateSheetProperties != nil:
			out[i] = "freeze"
		case r.AutoResizeDimensions != nil:
			out[i] = "resize"
		case r.AddConditionalFormatRule != nil:
			out[i] = "rule"
		case r.UpdateBorders != nil:
			out[i] = "borders"
		default:
			out[i] = "?"
		}
	}
	return out
}

func TestFormatRequests_Order(t *testing.T) {
	req := exportRequest(t)
	l := BuildLayout(req.Records, req.Mapping)

	reqs := FormatRequests(3, l, req.Records, req.DoctorColors)

	want := []string{"repeat", "freeze", "resize", "repeat", "repeat"}
	for i := 0; i < 5+len(StatusColors); i++ {
		want = append(want, "rule")
	}
	want = append(want, "borders")
	assert.Equal(t, want, kinds(reqs))
}

func TestFormatRequests_DoctorTint(t *testing.T) {
	req := exportRequest(t)
	l := BuildLayout(req.Records, req.Mapping)
	reqs := FormatRequests(3, l, req.Records, req.DoctorColors)

	row := reqs[3].RepeatCell
	require.NotNil(t, row)
	assert.Equal(t, int64(1), row.Range.StartRowIndex)
	assert.Equal(t, int64(2), row.Range.EndRowIndex)
	assert.Equal(t, int64(5), row.Range.EndColumnIndex)
	assert.InDelta(t, 0.85, row.Cell.UserEnteredFormat.BackgroundColor.Green, 1e-9)

	cell := reqs[4].RepeatCell
	require.NotNil(t, cell)
	assert.Equal(t, int64(2), cell.Range.StartColumnIndex)
	assert.True(t, cell.Cell.UserEnteredFormat.TextFormat.Bold)
	assert.Equal(t, 1.0, cell.Cell.UserEnteredFormat.TextFormat.ForegroundColor.Red)
	assert.Equal(t, 0.0, cell.Cell.UserEnteredFormat.TextFormat.ForegroundColor.Green)
}

func TestFormatRequests_Rules(t *testing.T) {
	req := exportRequest(t)
	l := BuildLayout(req.Records, req.Mapping)
	reqs := FormatRequests(3, l, req.Records, nil)

	var acuity, status int
	for _, r := range reqs {
		rule := r.AddConditionalFormatRule
		if rule == nil {
			continue
		}
		rng := rule.Rule.Ranges[0]
		assert.Equal(t, int64(1), rng.StartRowIndex, "rules skip the header")
		assert.Equal(t, int64(3), rng.EndRowIndex)
		switch rule.Rule.BooleanRule.Condition.Type {
		case "NUMBER_EQ":
			acuity++
			assert.Equal(t, int64(3), rng.StartColumnIndex)
		case "TEXT_EQ":
			status++
			assert.Equal(t, int64(4), rng.StartColumnIndex)
		}
	}
	assert.Equal(t, 5, acuity)
	assert.Equal(t, len(StatusColors), status)
}

func TestFormatRequests_OptionalRules(t *testing.T) {
	m, err := roster.ParseMapping([]string{"lastName=A"})
	require.NoError(t, err)
	records := []roster.Record{{LastName: "Doe", AttendingPhysician: "Dr. Smith"}}
	colors, _ := ParseDoctorColors(map[string]string{"Dr. Smith": "#00FF00"})

	reqs := FormatRequests(0, BuildLayout(records, m), records, colors)

	// row tint only: physician column is not mapped, no acuity/status rules
	assert.Equal(t, []string{"repeat", "freeze", "resize", "repeat", "borders"}, kinds(reqs))
}

func TestFormatRequests_HeaderOnly(t *testing.T) {
	m, _ := roster.ParseMapping([]string{"lastName=A", "acuity=B"})
	reqs := FormatRequests(0, BuildLayout(nil, m), nil, nil)
	assert.Equal(t, []string{"repeat", "freeze", "resize", "borders"}, kinds(reqs))

	assert.Nil(t, FormatRequests(0, &Layout{}, nil, nil))
}

func TestFormatRequests_Borders(t *testing.T) {
	req := exportRequest(t)
	reqs := FormatRequests(3, BuildLayout(req.Records, req.Mapping), req.Records, nil)
	b := reqs[len(reqs)-1].UpdateBorders
	require.NotNil(t, b)
	assert.Equal(t, int64(3), b.Range.EndRowIndex)
	assert.Equal(t, int64(5), b.Range.EndColumnIndex)
	for _, side := range []*sheets.Border{b.Top, b.Bottom, b.Left, b.Right, b.InnerHorizontal, b.InnerVertical} {
		require.NotNil(t, side)
		assert.Equal(t, "SOLID", side.Style)
	}
}
