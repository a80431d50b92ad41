package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/rostersync/internal/roster"
	"github.com/JonMunkholm/rostersync/internal/sheets"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// RunKind distinguishes imports from exports in the sync history.
type RunKind string

const (
	RunImport RunKind = "import"
	RunExport RunKind = "export"
)

// RunStatus is the final state of a sync run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// SyncRun is one entry in the sync history.
type SyncRun struct {
	ID         string         `json:"id"`
	Kind       RunKind        `json:"kind"`
	Source     string         `json:"source"` // spreadsheet id or uploaded file name
	Tab        string         `json:"tab,omitempty"`
	Status     RunStatus      `json:"status"`
	Records    int            `json:"records"`
	Dropped    int            `json:"dropped"`
	WardCounts map[string]int `json:"wardCounts,omitempty"`
	Error      string         `json:"error,omitempty"`
	ClientIP   string         `json:"clientIp,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// Duration returns how long the run took.
func (r SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// MappingPreset is a named, reusable column mapping.
type MappingPreset struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Mapping   roster.Mapping `json:"mapping"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ImportRequest asks for a roster to be fetched and parsed.
type ImportRequest struct {
	SpreadsheetID string         `json:"spreadsheetId"`
	GID           string         `json:"gid,omitempty"`
	Range         string         `json:"range,omitempty"`
	Mapping       roster.Mapping `json:"mapping,omitempty"`
	// PresetID selects a stored mapping when Mapping is empty.
	PresetID string `json:"presetId,omitempty"`
}

// ImportResult is the outcome of an import: the run entry plus the parsed
// records. Records are handed back to the caller; reconciling them with
// stored patients is not done here.
type ImportResult struct {
	Run    SyncRun             `json:"run"`
	Result *roster.ParseResult `json:"result"`
}

// ExportRequest asks for records to be written to a spreadsheet tab.
type ExportRequest struct {
	SpreadsheetID string          `json:"spreadsheetId"`
	Tab           string          `json:"tab,omitempty"`
	Mapping       roster.Mapping  `json:"mapping,omitempty"`
	PresetID      string          `json:"presetId,omitempty"`
	Records       []roster.Record `json:"records,omitempty"`
	// RunID re-exports the records staged by an earlier import when
	// Records is empty.
	RunID string `json:"runId,omitempty"`
	// Owner selects stored doctor colors; DoctorColors entries override them.
	Owner        string            `json:"owner,omitempty"`
	DoctorColors map[string]string `json:"doctorColors,omitempty"`
}

// ExportOutcome pairs the export result with its history entry.
type ExportOutcome struct {
	Run    SyncRun             `json:"run"`
	Result sheets.ExportResult `json:"result"`
}
