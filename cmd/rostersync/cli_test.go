package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
)

func TestParseColors(t *testing.T) {
	got, err := parseColors([]string{"Dr. Smith=#1E88E5", " Dr. Jones = abc "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Dr. Smith": "#1E88E5", "Dr. Jones": "abc"}, got)

	_, err = parseColors([]string{"#1E88E5"})
	assert.Error(t, err)
}

func TestReadRecords(t *testing.T) {
	records := []roster.Record{{LastName: "Doe", MRN: "123", Acuity: 4}}

	plain, err := json.Marshal(records)
	require.NoError(t, err)
	got, err := readRecords(plain)
	require.NoError(t, err)
	assert.Equal(t, "Doe", got[0].LastName)

	wrapped, err := json.Marshal(core.ImportResult{Result: &roster.ParseResult{Records: records}})
	require.NoError(t, err)
	got, err = readRecords(wrapped)
	require.NoError(t, err)
	assert.Equal(t, 4, got[0].Acuity)

	_, err = readRecords([]byte(`{"run":{}}`))
	assert.Error(t, err)
}

func TestPrintImport(t *testing.T) {
	var buf bytes.Buffer
	err := printImport(&buf, &core.ImportResult{
		Run: core.SyncRun{ID: "r1", Source: "ward.csv"},
		Result: &roster.ParseResult{
			Records:    []roster.Record{{WardID: "Ward 10", LastName: "Doe", FirstName: "Jane", Acuity: 2}},
			WardCounts: map[string]int{"Ward 10": 1},
			Dropped:    []roster.DroppedRow{{Row: 4, Reason: "summary row", Cells: []string{"Total", "1"}}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "run r1: 1 records, 1 dropped from ward.csv")
	assert.Contains(t, out, "Ward 10: 1")
	assert.Contains(t, out, "Doe, Jane")
	assert.Contains(t, out, "Total | 1")
}

func TestImportCmd_RequiresSource(t *testing.T) {
	cmd := importCmd()
	cmd.SetArgs([]string{"--map", "lastName=B"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "one of --sheet or --file is required")
}

func TestUserError(t *testing.T) {
	tech := fmt.Errorf("start import: %w", core.ErrTooManySyncs)
	err := userError(tech)

	assert.Equal(t,
		"System is busy processing other syncs (Code: SYNC001). Please wait a moment and try again\nstart import: "+core.ErrTooManySyncs.Error(),
		err.Error())
	assert.ErrorIs(t, err, core.ErrTooManySyncs)

	var ue *core.UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "SYNC001", ue.User.Code)

	plain := errors.New("disk on fire")
	assert.Same(t, plain, userError(plain))
}
