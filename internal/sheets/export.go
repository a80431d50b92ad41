package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/rostersync/internal/logging"
	"github.com/JonMunkholm/rostersync/internal/roster"
)

// ErrTabNotFound is returned when the target tab does not exist.
var ErrTabNotFound = errors.New("tab not found in spreadsheet")

// ExportRequest describes one export. All fields are read-only inputs.
type ExportRequest struct {
	SpreadsheetID string
	Tab           string
	Records       []roster.Record
	Mapping       roster.Mapping
	DoctorColors  DoctorColors
}

// ExportResult reports the outcome of an export. Error is set only when
// Success is false.
type ExportResult struct {
	Success     bool   `json:"success"`
	RowsWritten int    `json:"rowsWritten"`
	Error       string `json:"error,omitempty"`
}

// Exporter writes records into a remote spreadsheet tab.
type Exporter struct {
	api    *sheets.Service
	logger *slog.Logger
}

// NewExporter creates an Exporter. A nil logger logs through the logger
// carried by each call's context.
func NewExporter(api *sheets.Service, logger *slog.Logger) *Exporter {
	return &Exporter{api: api, logger: logger}
}

// Configured reports whether an API client is available.
func (e *Exporter) Configured() bool { return e != nil && e.api != nil }

func (e *Exporter) log(ctx context.Context) *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.FromContext(ctx)
}

func failed(err error) ExportResult {
	return ExportResult{Success: false, Error: err.Error()}
}

// ExportToSheet resolves the tab, writes the values as entered, clears rows
// a longer earlier export left below them, then applies the formatting
// batch. It never returns an error: failures before formatting yield
// Success=false, a formatting failure is only logged.
func (e *Exporter) ExportToSheet(ctx context.Context, req ExportRequest) ExportResult {
	if !e.Configured() {
		return failed(errors.New("spreadsheet client not configured"))
	}
	if err := req.Mapping.Validate(); err != nil {
		return failed(err)
	}

	log := e.log(ctx).With("spreadsheet_id", req.SpreadsheetID, "tab", req.Tab)
	start := time.Now()

	sheetID, err := e.ResolveTab(ctx, req.SpreadsheetID, req.Tab)
	if err != nil {
		log.Error("export tab lookup failed", "error", err)
		return failed(err)
	}

	layout := BuildLayout(req.Records, req.Mapping)
	_, err = e.api.Spreadsheets.Values.Update(req.SpreadsheetID, layout.Range(req.Tab), &sheets.ValueRange{
		Values: layout.Rows,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		err = fmt.Errorf("write values: %w", apiError(req.SpreadsheetID, err))
		log.Error("export values write failed", "error", err)
		return failed(err)
	}

	_, err = e.api.Spreadsheets.Values.Clear(req.SpreadsheetID, layout.StaleRange(req.Tab), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		err = fmt.Errorf("clear stale rows: %w", apiError(req.SpreadsheetID, err))
		log.Error("export stale rows clear failed", "error", err)
		return failed(err)
	}

	result := ExportResult{Success: true, RowsWritten: layout.DataRows()}

	reqs := FormatRequests(sheetID, layout, req.Records, req.DoctorColors)
	if len(reqs) > 0 {
		_, err = e.api.Spreadsheets.BatchUpdate(req.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: reqs,
		}).Context(ctx).Do()
		if err != nil {
			log.Warn("export formatting failed, values were written",
				"error", err,
				"requests", len(reqs),
			)
		}
	}

	log.Info("export completed",
		"rows", result.RowsWritten,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

// ResolveTab returns the numeric id of the named tab.
func (e *Exporter) ResolveTab(ctx context.Context, spreadsheetID, tab string) (int64, error) {
	doc, err := e.api.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, apiError(spreadsheetID, err)
	}
	for _, s := range doc.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrTabNotFound, tab)
}
