package sheets

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultTimeout bounds a single request to the spreadsheet service.
const DefaultTimeout = 30 * time.Second

// ClientConfig configures the spreadsheet API client.
type ClientConfig struct {
	// Endpoint overrides the API base URL (tests, proxies). Empty uses the
	// library default.
	Endpoint string

	// AccessToken is a bearer token with spreadsheet scope. Empty means
	// unauthenticated: only public reads work.
	AccessToken string

	Timeout time.Duration
}

// HTTPClient returns an http.Client that attaches the configured bearer
// token to every request.
func (c ClientConfig) HTTPClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := &http.Client{Timeout: timeout}
	if c.AccessToken != "" {
		hc.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: c.AccessToken,
				TokenType:   "Bearer",
			}),
		}
	}
	return hc
}

// NewService builds a Sheets API client from cfg.
func NewService(ctx context.Context, cfg ClientConfig) (*sheets.Service, error) {
	opts := []option.ClientOption{option.WithHTTPClient(cfg.HTTPClient())}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return svc, nil
}

// quoteTab renders a tab name for use in A1 notation.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}
