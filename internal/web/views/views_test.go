package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
)

func TestErrorAlert_Escapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("<b>bad</b>", "try again", "SHEET001").Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "&lt;b&gt;bad&lt;/b&gt;")
	assert.Contains(t, html, "Code: SHEET001")
	assert.NotContains(t, html, "<b>")
}

func TestImportPreview(t *testing.T) {
	run := core.SyncRun{
		ID:         "r1",
		Source:     "ward10.csv",
		Records:    1,
		Dropped:    1,
		WardCounts: map[string]int{"Ward 10": 1, "(Unassigned)": 0},
	}
	records := []roster.Record{{WardID: "Ward 10", LastName: "Doe", FirstName: "Jane", Acuity: 4, CodeStatus: roster.CodeDNR}}
	dropped := []roster.DroppedRow{{Row: 5, Reason: "footer", Cells: []string{"Total", "1"}}}

	var buf bytes.Buffer
	require.NoError(t, ImportPreview(run, records, dropped).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "1 records, 1 dropped")
	assert.Contains(t, html, `<tr class="acuity-4">`)
	assert.Contains(t, html, "<td>DNR</td>")
	assert.Contains(t, html, "Total | 1")
	assert.Less(t, strings.Index(html, "(Unassigned)"), strings.Index(html, "Ward 10: 1"))
}

func TestRunList(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	runs := []core.SyncRun{{
		ID:         "abc",
		Kind:       core.RunExport,
		Source:     "doc<1>",
		Status:     core.RunFailed,
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}}

	var buf bytes.Buffer
	require.NoError(t, Page("History", RunList(runs)).Render(context.Background(), &buf))
	html := buf.String()

	assert.True(t, strings.HasPrefix(strings.ToLower(html), "<!doctype html>"))
	assert.Contains(t, html, "<title>History</title>")
	assert.Contains(t, html, `<a href="/runs/abc">doc&lt;1&gt;</a>`)
	assert.Contains(t, html, `class="run-failed"`)
	assert.Contains(t, html, "1.5s")

	buf.Reset()
	require.NoError(t, RunList(nil).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "No syncs yet.")
}
