package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/rostersync/internal/roster"
	"github.com/JonMunkholm/rostersync/internal/sheets"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "access denied",
			err:      &sheets.FetchError{SpreadsheetID: "abc", Status: 403, Err: sheets.ErrAccessDenied},
			wantCode: "SHEET001",
		},
		{
			name:     "spreadsheet not found",
			err:      &sheets.FetchError{SpreadsheetID: "abc", Status: 404, Err: sheets.ErrNotFound},
			wantCode: "SHEET002",
		},
		{
			name:     "tab not found",
			err:      fmt.Errorf("%w: %q", sheets.ErrTabNotFound, "Roster"),
			wantCode: "SHEET003",
		},
		{
			name:     "upstream status",
			err:      &sheets.FetchError{SpreadsheetID: "abc", Status: 502},
			wantCode: "SHEET004",
		},
		{
			name:     "file too large",
			err:      fmt.Errorf("%w: exceeds 10 bytes", roster.ErrInputTooLarge),
			wantCode: "IMP001",
		},
		{
			name:     "mapping empty",
			err:      roster.Mapping{}.Validate(),
			wantCode: "MAP001",
		},
		{
			name:     "duplicate mapping",
			err:      roster.Mapping{{Field: roster.FieldMRN, Column: "A"}, {Field: roster.FieldMRN, Column: "B"}}.Validate(),
			wantCode: "MAP003",
		},
		{
			name:     "preset exists",
			err:      ErrPresetExists,
			wantCode: "MAP005",
		},
		{
			name:     "preset without name",
			err:      errors.New("preset name is required"),
			wantCode: "MAP006",
		},
		{
			name:     "invalid colors",
			err:      &InvalidColorsError{Physicians: []string{"Dr. Who"}},
			wantCode: "COL001",
		},
		{
			name:     "malformed body",
			err:      errors.New("invalid request body: unexpected EOF"),
			wantCode: "REQ001",
		},
		{
			name:     "too many syncs",
			err:      ErrTooManySyncs,
			wantCode: "SYNC001",
		},
		{
			name:     "run not found",
			err:      ErrRunNotFound,
			wantCode: "SYNC002",
		},
		{
			name:     "deadline before generic timeout",
			err:      fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			wantCode: "SYNC003",
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: "DB002",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("ACCESS DENIED"),
			wantCode: "SHEET001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrTooManySyncs)

	expected := "System is busy processing other syncs (Code: SYNC001). Please wait a moment and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  sheets.ErrAccessDenied,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("load run: %w", ErrRunNotFound)
		userErr := NewUserError(techErr)

		if userErr.Error() != "Sync run not found" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrRunNotFound) {
			t.Error("Unwrap() should return original error")
		}
	})
}
