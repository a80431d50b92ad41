package web

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/logging"
	"github.com/JonMunkholm/rostersync/internal/web/views"
)

// parseIntParam parses a non-negative integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

func runsParams(r *http.Request) core.ListRunsParams {
	return core.ListRunsParams{
		Kind:   core.RunKind(r.URL.Query().Get("kind")),
		Limit:  parseIntParam(r, "limit", core.DefaultRunLimit),
		Offset: parseIntParam(r, "offset", 0),
	}
}

// renderHTML renders a component with the given status.
func renderHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}

// handleListRuns returns the sync history.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.ListRuns(r.Context(), runsParams(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if wantsHTML(r) {
		renderHTML(w, r, http.StatusOK, views.RunList(runs))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns one sync run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleRunRecords returns the records staged with a run.
func (s *Server) handleRunRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.RunRecords(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleDashboard renders the recent sync history.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.ListRuns(r.Context(), runsParams(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	renderHTML(w, r, http.StatusOK, views.Page("Roster sync", views.RunList(runs)))
}

// handleRunPage renders one run with its records.
func (s *Server) handleRunPage(w http.ResponseWriter, r *http.Request) {
	run, records, err := s.loadRun(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	renderHTML(w, r, http.StatusOK, views.Page("Run "+run.Source, views.ImportPreview(run, records, nil)))
}

// handleStatus reports sync concurrency.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.LimiterStatus())
}

// handleHealth checks the store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
