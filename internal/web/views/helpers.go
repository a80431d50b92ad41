package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
	"github.com/JonMunkholm/rostersync/internal/sheets"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// previewColumns are the record fields shown in the import preview.
var previewColumns = []roster.Field{
	roster.FieldWardID,
	roster.FieldBedNumber,
	roster.FieldLastName,
	roster.FieldFirstName,
	roster.FieldMRN,
	roster.FieldPrimaryDiagnosis,
	roster.FieldAttendingPhysician,
	roster.FieldCodeStatus,
	roster.FieldAcuity,
	roster.FieldStatus,
}

func cellText(r roster.Record, f roster.Field) string {
	return fmt.Sprint(sheets.FieldValue(r, f))
}

func summary(run core.SyncRun) string {
	return fmt.Sprintf("%d records, %d dropped", run.Records, run.Dropped)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
