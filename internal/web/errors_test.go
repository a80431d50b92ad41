package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
	"github.com/JonMunkholm/rostersync/internal/sheets"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"run not found", fmt.Errorf("get run: %w", core.ErrRunNotFound), http.StatusNotFound},
		{"preset not found", core.ErrPresetNotFound, http.StatusNotFound},
		{"sheet not found", &sheets.FetchError{Status: 404, Err: sheets.ErrNotFound}, http.StatusNotFound},
		{"access denied", &sheets.FetchError{Status: 403, Err: sheets.ErrAccessDenied}, http.StatusForbidden},
		{"upstream", &sheets.FetchError{Status: 500}, http.StatusBadGateway},
		{"preset exists", core.ErrPresetExists, http.StatusConflict},
		{"too many syncs", core.ErrTooManySyncs, http.StatusServiceUnavailable},
		{"too large", roster.ErrInputTooLarge, http.StatusRequestEntityTooLarge},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"no file", core.ErrNoFile, http.StatusBadRequest},
		{"invalid colors", &core.InvalidColorsError{Physicians: []string{"Dr. X"}}, http.StatusBadRequest},
		{"mapping", errors.New("mapping is empty"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWantsHTML(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header map[string]string
		want   bool
	}{
		{"json default", "/api/runs", nil, false},
		{"format param", "/api/runs?format=html", nil, true},
		{"htmx", "/api/runs", map[string]string{"HX-Request": "true"}, true},
		{"accept", "/api/runs", map[string]string{"Accept": "text/html,*/*"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, wantsHTML(r))
		})
	}
}
