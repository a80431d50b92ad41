package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
	"github.com/JonMunkholm/rostersync/internal/web/views"
)

// decodeJSON reads a JSON request body capped at the import size limit.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return fmt.Errorf("%w: exceeds %d bytes", roster.ErrInputTooLarge, maxBytes.Limit)
		}
		return badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

// parseMappingParam accepts either a JSON array of {field, column} objects
// or "field=Col" pairs separated by commas or newlines. Empty input yields
// a nil mapping.
func parseMappingParam(s string) (roster.Mapping, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "[") {
		var m roster.Mapping
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, badRequest{fmt.Errorf("invalid mapping: %w", err)}
		}
		return m, m.Validate()
	}
	pairs := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == ';' })
	for i := range pairs {
		pairs[i] = strings.TrimSpace(pairs[i])
	}
	return roster.ParseMapping(pairs)
}

// handleImport fetches and parses a remote spreadsheet.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req core.ImportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	res, err := s.service.Import(ctx, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondImport(w, r, res)
}

// handleImportFile parses an uploaded CSV, TSV or workbook.
func (s *Server) handleImportFile(w http.ResponseWriter, r *http.Request) {
	// multipart overhead on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, fmt.Errorf("%w: exceeds %d bytes", roster.ErrInputTooLarge, s.cfg.Import.MaxFileSize))
			return
		}
		s.respondError(w, r, badRequest{fmt.Errorf("parse form: %w", err)})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	mapping, err := parseMappingParam(r.FormValue("mapping"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	res, err := s.service.ImportFile(ctx, core.FileImportRequest{
		FileName: filepath.Base(header.Filename),
		Sheet:    r.FormValue("sheet"),
		Mapping:  mapping,
		PresetID: r.FormValue("presetId"),
	}, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondImport(w, r, res)
}

func (s *Server) respondImport(w http.ResponseWriter, r *http.Request, res *core.ImportResult) {
	if wantsHTML(r) {
		renderHTML(w, r, http.StatusOK, views.ImportPreview(res.Run, res.Result.Records, res.Result.Dropped))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleImportPreview shows a finished import from the history.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	run, records, err := s.loadRun(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if wantsHTML(r) {
		renderHTML(w, r, http.StatusOK, views.ImportPreview(run, records, nil))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Run     core.SyncRun    `json:"run"`
		Records []roster.Record `json:"records"`
	}{run, records})
}

func (s *Server) loadRun(r *http.Request) (core.SyncRun, []roster.Record, error) {
	id := chi.URLParam(r, "runID")
	run, err := s.service.GetRun(r.Context(), id)
	if err != nil {
		return core.SyncRun{}, nil, err
	}
	records, err := s.service.RunRecords(r.Context(), id)
	if err != nil {
		return core.SyncRun{}, nil, err
	}
	return run, records, nil
}

// exportResponse adds the user-facing message to a failed export.
type exportResponse struct {
	*core.ExportOutcome
	Message string `json:"message,omitempty"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code,omitempty"`
}

// handleExport writes records to a spreadsheet tab. A failed export still
// answers with the outcome, with status 502.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req core.ExportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	out, err := s.service.Export(ctx, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if out.Result.Success {
		writeJSON(w, http.StatusOK, exportResponse{ExportOutcome: out})
		return
	}
	msg := core.MapError(errors.New(out.Result.Error))
	writeJSON(w, http.StatusBadGateway, exportResponse{
		ExportOutcome: out,
		Message:       msg.Message,
		Action:        msg.Action,
		Code:          msg.Code,
	})
}

// handleExportXLSX returns the export as a workbook download.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var req core.ExportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if _, err := s.service.ExportXLSX(r.Context(), &buf, req); err != nil {
		s.respondError(w, r, err)
		return
	}

	name := req.Tab
	if name == "" {
		name = s.service.Options().DefaultTab
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, name+".xlsx"))
	w.Write(buf.Bytes())
}

// handleListFormats lists the accepted upload formats.
func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Formats())
}
