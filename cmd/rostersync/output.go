package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
)

type table struct{ tw *tabwriter.Writer }

func newTable(w io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error { return t.tw.Flush() }

func joinList(items []string) string { return strings.Join(items, ", ") }

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printImport writes a human summary of an import: ward counts, records and
// dropped rows.
func printImport(w io.Writer, res *core.ImportResult) error {
	fmt.Fprintf(w, "run %s: %d records, %d dropped from %s\n",
		res.Run.ID, len(res.Result.Records), len(res.Result.Dropped), res.Run.Source)

	wards := make([]string, 0, len(res.Result.WardCounts))
	for ward := range res.Result.WardCounts {
		wards = append(wards, ward)
	}
	sort.Strings(wards)
	for _, ward := range wards {
		fmt.Fprintf(w, "  %s: %d\n", ward, res.Result.WardCounts[ward])
	}
	fmt.Fprintln(w)

	t := newTable(w)
	t.row("WARD", "BED", "NAME", "MRN", "ATTENDING", "ACUITY", "CODE")
	for _, r := range res.Result.Records {
		name := r.LastName
		if r.FirstName != "" {
			name += ", " + r.FirstName
		}
		t.row(r.WardID, r.BedNumber, name, r.MRN, r.AttendingPhysician, fmt.Sprint(r.Acuity), string(r.CodeStatus))
	}
	if err := t.flush(); err != nil {
		return err
	}

	if len(res.Result.Dropped) > 0 {
		fmt.Fprintln(w)
		t = newTable(w)
		t.row("ROW", "REASON", "CELLS")
		for _, d := range res.Result.Dropped {
			t.row(fmt.Sprint(d.Row), d.Reason, strings.Join(d.Cells, " | "))
		}
		return t.flush()
	}
	return nil
}

// readRecords loads records from a JSON file holding either an array of
// records or the output of "rostersync import --json".
func readRecords(data []byte) ([]roster.Record, error) {
	var records []roster.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var res core.ImportResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if res.Result == nil {
		return nil, fmt.Errorf("decode records: no records found")
	}
	return res.Result.Records, nil
}
