package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

// DefaultExportBase is the host serving the public CSV export.
const DefaultExportBase = "https://docs.google.com"

// Sentinel errors for the two access failures an operator can fix.
var (
	ErrAccessDenied = errors.New("access denied - check sharing settings")
	ErrNotFound     = errors.New("not found - check the identifier")
)

// FetchError reports a failed roster download.
type FetchError struct {
	SpreadsheetID string
	Status        int
	Err           error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch spreadsheet %s: %v", e.SpreadsheetID, e.Err)
	}
	return fmt.Sprintf("fetch spreadsheet %s: unexpected status %d", e.SpreadsheetID, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

func statusError(id string, status int) *FetchError {
	fe := &FetchError{SpreadsheetID: id, Status: status}
	switch status {
	case http.StatusForbidden, http.StatusUnauthorized:
		fe.Err = ErrAccessDenied
	case http.StatusNotFound:
		fe.Err = ErrNotFound
	}
	return fe
}

// apiError converts a Sheets API error into a FetchError when it carries an
// HTTP status.
func apiError(id string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		fe := statusError(id, gerr.Code)
		if fe.Err == nil {
			fe.Err = fmt.Errorf("status %d: %s", gerr.Code, gerr.Message)
		}
		return fe
	}
	return &FetchError{SpreadsheetID: id, Err: err}
}

// Source identifies the roster to fetch.
type Source struct {
	SpreadsheetID string
	// GID selects a tab by numeric id on the public export path.
	GID string
	// Range is an A1 range (or tab name) for the authenticated path.
	// Empty reads the first tab.
	Range string
}

// Fetcher downloads roster text.
type Fetcher struct {
	client     *http.Client
	exportBase string
	api        *sheets.Service
	maxBytes   int64
}

// NewFetcher creates a Fetcher. When api is nil every fetch uses the public
// CSV export, which requires the sheet to be shared link-readable.
func NewFetcher(client *http.Client, exportBase string, api *sheets.Service, maxBytes int64) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if exportBase == "" {
		exportBase = DefaultExportBase
	}
	return &Fetcher{
		client:     client,
		exportBase: strings.TrimRight(exportBase, "/"),
		api:        api,
		maxBytes:   maxBytes,
	}
}

// Authenticated reports whether fetches go through the values API.
func (f *Fetcher) Authenticated() bool { return f.api != nil }

// Fetch downloads the roster described by src and returns it as a grid.
// Only transport failures are errors; the content is never validated here.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (roster.Grid, error) {
	if src.SpreadsheetID == "" {
		return nil, &FetchError{Err: ErrNotFound}
	}
	if f.api != nil {
		return f.fetchValues(ctx, src)
	}
	text, err := f.FetchCSV(ctx, src)
	if err != nil {
		return nil, err
	}
	return roster.Tokenize(text), nil
}

// ExportURL builds the public CSV export URL for src.
func (f *Fetcher) ExportURL(src Source) string {
	q := url.Values{"format": {"csv"}}
	if src.GID != "" {
		q.Set("gid", src.GID)
	}
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?%s",
		f.exportBase, url.PathEscape(src.SpreadsheetID), q.Encode())
}

// FetchCSV downloads the raw CSV text of a link-shared spreadsheet.
func (f *Fetcher) FetchCSV(ctx context.Context, src Source) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ExportURL(src), nil)
	if err != nil {
		return "", &FetchError{SpreadsheetID: src.SpreadsheetID, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{SpreadsheetID: src.SpreadsheetID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(src.SpreadsheetID, resp.StatusCode)
	}

	text, err := roster.ReadText(resp.Body, f.maxBytes)
	if err != nil {
		return "", &FetchError{SpreadsheetID: src.SpreadsheetID, Status: resp.StatusCode, Err: err}
	}
	return text, nil
}

func (f *Fetcher) fetchValues(ctx context.Context, src Source) (roster.Grid, error) {
	rng := src.Range
	if rng == "" {
		rng = "A:ZZ"
	}

	vr, err := f.api.Spreadsheets.Values.Get(src.SpreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apiError(src.SpreadsheetID, err)
	}

	g := make(roster.Grid, len(vr.Values))
	for i, row := range vr.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		g[i] = cells
	}
	return g, nil
}
