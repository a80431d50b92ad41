package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/rostersync/internal/logging"
	"github.com/JonMunkholm/rostersync/internal/roster"
	"github.com/JonMunkholm/rostersync/internal/sheets"
)

// Default operation limits, used when Options leaves them zero.
const (
	DefaultMaxFileSize = 10 << 20
	DefaultSyncTimeout = 2 * time.Minute
	DefaultTab         = "Roster"
)

// ErrNoFile is returned by ImportFile when the upload is empty.
var ErrNoFile = errors.New("no file provided")

// Options tune a Service. Zero values use the package defaults.
type Options struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	DefaultTab    string
}

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrentSyncs
	}
	if o.MaxWait <= 0 {
		o.MaxWait = DefaultMaxWaitTime
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultSyncTimeout
	}
	if o.DefaultTab == "" {
		o.DefaultTab = DefaultTab
	}
	return o
}

// Service runs roster imports and exports and records them in the sync
// history.
type Service struct {
	store    Store
	fetcher  *sheets.Fetcher
	exporter *sheets.Exporter
	limiter  *SyncLimiter
	opts     Options
	now      func() time.Time
}

// NewService creates a Service. A nil store keeps history in memory.
func NewService(store Store, fetcher *sheets.Fetcher, exporter *sheets.Exporter, opts Options) *Service {
	if store == nil {
		store = NewMemStore()
	}
	opts = opts.withDefaults()
	return &Service{
		store:    store,
		fetcher:  fetcher,
		exporter: exporter,
		limiter:  NewSyncLimiter(opts.MaxConcurrent, opts.MaxWait),
		opts:     opts,
		now:      time.Now,
	}
}

// Store returns the backing store.
func (s *Service) Store() Store { return s.store }

// Options returns the effective options.
func (s *Service) Options() Options { return s.opts }

// LimiterStatus reports current sync concurrency.
func (s *Service) LimiterStatus() LimiterStatus { return s.limiter.Status() }

// WaitForDrain blocks until in-flight syncs finish or ctx is done.
func (s *Service) WaitForDrain(ctx context.Context) error { return s.limiter.WaitForDrain(ctx) }

// begin acquires a sync slot and derives the per-operation context.
func (s *Service) begin(ctx context.Context) (context.Context, func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	return ctx, func() {
		cancel()
		s.limiter.Release()
	}, nil
}

func (s *Service) newRun(ctx context.Context, kind RunKind, source, tab string) SyncRun {
	return SyncRun{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		Tab:       tab,
		ClientIP:  GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
		StartedAt: s.now().UTC(),
	}
}

// finish stamps the run and saves it. History is best effort: a store
// failure is logged and does not fail the sync.
func (s *Service) finish(ctx context.Context, run *SyncRun, records []roster.Record, err error) {
	run.FinishedAt = s.now().UTC()
	run.Status = RunSucceeded
	if err != nil {
		run.Status = RunFailed
		run.Error = err.Error()
	}
	// the sync context may already be past its deadline
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if serr := s.store.SaveRun(saveCtx, *run, records); serr != nil {
		logging.FromContext(ctx).Error("save sync run failed", "error", serr)
	}
}

// resolveMapping returns m, or the preset's mapping when m is empty.
func (s *Service) resolveMapping(ctx context.Context, m roster.Mapping, presetID string) (roster.Mapping, error) {
	if len(m) == 0 && presetID != "" {
		p, err := s.store.GetPreset(ctx, presetID)
		if err != nil {
			return nil, err
		}
		m = p.Mapping
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Import fetches a spreadsheet and builds records from it.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	m, err := s.resolveMapping(ctx, req.Mapping, req.PresetID)
	if err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, errors.New("spreadsheet client not configured")
	}

	ctx, done, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	run := s.newRun(ctx, RunImport, req.SpreadsheetID, req.Range)
	ctx, log := logging.WithFields(ctx, "run_id", run.ID, "spreadsheet_id", req.SpreadsheetID)
	log.Info("import started", "authenticated", s.fetcher.Authenticated())

	grid, err := s.fetcher.Fetch(ctx, sheets.Source{
		SpreadsheetID: req.SpreadsheetID,
		GID:           req.GID,
		Range:         req.Range,
	})
	if err != nil {
		log.Error("import fetch failed", "error", err)
		s.finish(ctx, &run, nil, err)
		return nil, err
	}

	return s.build(ctx, run, grid, m), nil
}

// FileImportRequest describes an uploaded roster file.
type FileImportRequest struct {
	FileName string
	// Sheet selects a worksheet in workbook uploads.
	Sheet    string
	Mapping  roster.Mapping
	PresetID string
}

// ImportFile builds records from an uploaded CSV, TSV or workbook file.
func (s *Service) ImportFile(ctx context.Context, req FileImportRequest, r io.Reader) (*ImportResult, error) {
	if r == nil || req.FileName == "" {
		return nil, ErrNoFile
	}
	format, err := FormatForFile(req.FileName)
	if err != nil {
		return nil, err
	}
	m, err := s.resolveMapping(ctx, req.Mapping, req.PresetID)
	if err != nil {
		return nil, err
	}

	ctx, done, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	run := s.newRun(ctx, RunImport, req.FileName, req.Sheet)
	ctx, log := logging.WithFields(ctx, "run_id", run.ID, "file", req.FileName, "format", format.Key)
	log.Info("file import started")

	grid, err := format.Decode(r, DecodeOptions{Limit: s.opts.MaxFileSize, Sheet: req.Sheet})
	if err != nil {
		log.Error("file import decode failed", "error", err)
		s.finish(ctx, &run, nil, err)
		return nil, err
	}

	return s.build(ctx, run, grid, m), nil
}

func (s *Service) build(ctx context.Context, run SyncRun, grid roster.Grid, m roster.Mapping) *ImportResult {
	start := time.Now()
	res := roster.Build(grid, m)

	run.Records = len(res.Records)
	run.Dropped = len(res.Dropped)
	run.WardCounts = res.WardCounts
	s.finish(ctx, &run, res.Records, nil)

	logging.FromContext(ctx).Info("import completed",
		"rows", res.Stats.Rows,
		"records", run.Records,
		"dropped", run.Dropped,
		"wards", len(res.WardCounts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &ImportResult{Run: run, Result: res}
}

// prepareExport fills in records, mapping, tab and colors for req.
func (s *Service) prepareExport(ctx context.Context, req ExportRequest) (sheets.ExportRequest, error) {
	m, err := s.resolveMapping(ctx, req.Mapping, req.PresetID)
	if err != nil {
		return sheets.ExportRequest{}, err
	}

	records := req.Records
	if len(records) == 0 && req.RunID != "" {
		records, err = s.store.RunRecords(ctx, req.RunID)
		if err != nil {
			return sheets.ExportRequest{}, err
		}
	}

	colors, err := s.doctorColors(ctx, req.Owner, req.DoctorColors)
	if err != nil {
		return sheets.ExportRequest{}, err
	}

	tab := strings.TrimSpace(req.Tab)
	if tab == "" {
		tab = s.opts.DefaultTab
	}

	return sheets.ExportRequest{
		SpreadsheetID: req.SpreadsheetID,
		Tab:           tab,
		Records:       records,
		Mapping:       m,
		DoctorColors:  colors,
	}, nil
}

// doctorColors merges the owner's stored colors with per-request overrides.
// Unparsable entries are logged and skipped.
func (s *Service) doctorColors(ctx context.Context, owner string, overrides map[string]string) (sheets.DoctorColors, error) {
	merged := make(map[string]string)
	if owner != "" {
		stored, err := s.store.DoctorColors(ctx, owner)
		if err != nil {
			return nil, err
		}
		for k, v := range stored {
			merged[k] = v
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}

	colors, bad := sheets.ParseDoctorColors(merged)
	if len(bad) > 0 {
		logging.FromContext(ctx).Warn("ignoring invalid doctor colors", "physicians", bad)
	}
	return colors, nil
}

// Export writes records to a spreadsheet tab. Export failures are reported
// in the outcome; the error return is for requests that never reached the
// spreadsheet.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*ExportOutcome, error) {
	sreq, err := s.prepareExport(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx, done, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	run := s.newRun(ctx, RunExport, sreq.SpreadsheetID, sreq.Tab)
	ctx, log := logging.WithFields(ctx, "run_id", run.ID, "spreadsheet_id", sreq.SpreadsheetID)
	log.Info("export started", "records", len(sreq.Records), "tab", sreq.Tab)

	result := s.exporter.ExportToSheet(ctx, sreq)

	run.Records = result.RowsWritten
	var runErr error
	if !result.Success {
		runErr = errors.New(result.Error)
	}
	s.finish(ctx, &run, sreq.Records, runErr)

	return &ExportOutcome{Run: run, Result: result}, nil
}

// ExportXLSX renders the export as a local workbook instead of writing to a
// remote spreadsheet.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer, req ExportRequest) (int, error) {
	sreq, err := s.prepareExport(ctx, req)
	if err != nil {
		return 0, err
	}
	n, err := sheets.WriteXLSX(w, sreq)
	if err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	logging.FromContext(ctx).Info("workbook export completed", "rows", n, "tab", sreq.Tab)
	return n, nil
}

// ListRuns returns sync history, newest first.
func (s *Service) ListRuns(ctx context.Context, p ListRunsParams) ([]SyncRun, error) {
	return s.store.ListRuns(ctx, p)
}

// GetRun returns one sync run.
func (s *Service) GetRun(ctx context.Context, id string) (SyncRun, error) {
	return s.store.GetRun(ctx, id)
}

// RunRecords returns the records staged with a run.
func (s *Service) RunRecords(ctx context.Context, id string) ([]roster.Record, error) {
	return s.store.RunRecords(ctx, id)
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
