package sheets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

func TestWriteXLSX(t *testing.T) {
	req := exportRequest(t)
	var buf bytes.Buffer

	n, err := WriteXLSX(&buf, req)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Roster"}, f.GetSheetList())
	rows, err := f.GetRows("Roster")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Bed", "Last Name", "Attending", "Acuity", "Status"},
		{"1", "Doe", "Dr. Smith", "4", "critical"},
		{"2", "Roe", "Dr. Who", "2", "stable"},
	}, rows)

	// tinted and untinted rows use different styles
	tinted, err := f.GetCellStyle("Roster", "A2")
	require.NoError(t, err)
	plain, err := f.GetCellStyle("Roster", "A3")
	require.NoError(t, err)
	assert.NotEqual(t, tinted, plain)
}

func TestWriteXLSX_ReimportsThroughRoster(t *testing.T) {
	req := exportRequest(t)
	var buf bytes.Buffer
	_, err := WriteXLSX(&buf, req)
	require.NoError(t, err)

	g, err := roster.ReadXLSX(&buf, "")
	require.NoError(t, err)

	res := roster.Build(g, req.Mapping)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Doe", res.Records[0].LastName)
	assert.Equal(t, 4, res.Records[0].Acuity)
	assert.Equal(t, "critical", res.Records[0].Status)
}

func TestWriteXLSX_InvalidMapping(t *testing.T) {
	_, err := WriteXLSX(&bytes.Buffer{}, ExportRequest{})
	assert.Error(t, err)
}
