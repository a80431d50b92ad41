// Package sheetstest provides an in-process stand-in for the Sheets v4 REST
// API, for tests of code that fetches or exports rosters.
package sheetstest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/sheets/v4"
)

// Call names accepted by Fail.
const (
	CallGet    = "get"
	CallValues = "values"
	CallUpdate = "update"
	CallBatch  = "batch"
	CallClear  = "clear"
)

// Server serves spreadsheet metadata plus values reads, writes and clears
// and batch updates, and records what it received. It is closed when the test
// ends.
type Server struct {
	URL string

	t       testing.TB
	mu      sync.Mutex
	tabs    map[string]int64
	values  [][]any
	status  map[string]int
	auth    []string
	ranges  []string
	updates []sheets.ValueRange
	options []string
	clears  []string
	batches []sheets.BatchUpdateSpreadsheetRequest
}

// NewServer starts a fake with one tab, "Roster", whose sheet id is 7.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		t:      t,
		tabs:   map[string]int64{"Roster": 7},
		status: map[string]int{},
	}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	s.URL = srv.URL
	return s
}

// Endpoint is the base path to configure the API client with.
func (s *Server) Endpoint() string { return s.URL + "/" }

// Fail forces every later call of the given kind to answer with status.
func (s *Server) Fail(call string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[call] = status
}

// SetTabs replaces the spreadsheet's tabs (title -> sheet id).
func (s *Server) SetTabs(tabs map[string]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = tabs
}

// SetValues sets the rows returned by values reads.
func (s *Server) SetValues(rows [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = rows
}

// Auth returns the Authorization headers received, in order.
func (s *Server) Auth() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.auth...)
}

// Ranges returns the request paths of values reads and writes.
func (s *Server) Ranges() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ranges...)
}

// Updates returns the value ranges written.
func (s *Server) Updates() []sheets.ValueRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.ValueRange(nil), s.updates...)
}

// InputOptions returns the valueInputOption of each values write, in order.
func (s *Server) InputOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.options...)
}

// Clears returns the request paths of values clears.
func (s *Server) Clears() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clears...)
}

// Batches returns the batch updates received.
func (s *Server) Batches() []sheets.BatchUpdateSpreadsheetRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.BatchUpdateSpreadsheetRequest(nil), s.batches...)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = append(s.auth, r.Header.Get("Authorization"))

	var call string
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		call = CallBatch
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		call = CallClear
	case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/values/"):
		call = CallUpdate
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
		call = CallValues
	case r.Method == http.MethodGet:
		call = CallGet
	default:
		http.NotFound(w, r)
		return
	}

	if code := s.status[call]; code != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"forced %s failure"}}`, code, call)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var resp any
	switch call {
	case CallGet:
		list := make([]map[string]any, 0, len(s.tabs))
		for title, id := range s.tabs {
			list = append(list, map[string]any{"properties": map[string]any{"sheetId": id, "title": title}})
		}
		resp = map[string]any{"sheets": list}
	case CallValues:
		s.ranges = append(s.ranges, r.URL.Path)
		resp = map[string]any{"values": s.values}
	case CallUpdate:
		var vr sheets.ValueRange
		if err := json.Unmarshal(body, &vr); err != nil {
			s.t.Errorf("decode values update: %v", err)
		}
		s.ranges = append(s.ranges, r.URL.Path)
		s.updates = append(s.updates, vr)
		s.options = append(s.options, r.URL.Query().Get("valueInputOption"))
		resp = map[string]any{"updatedRows": len(vr.Values)}
	case CallClear:
		s.clears = append(s.clears, strings.TrimSuffix(r.URL.Path, ":clear"))
		resp = map[string]any{"spreadsheetId": "doc"}
	case CallBatch:
		var br sheets.BatchUpdateSpreadsheetRequest
		if err := json.Unmarshal(body, &br); err != nil {
			s.t.Errorf("decode batch update: %v", err)
		}
		s.batches = append(s.batches, br)
		resp = map[string]any{"spreadsheetId": "doc"}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
