// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Spreadsheet Errors (SHEET001-SHEET099)
//
//	SHEET001 - Access denied: The spreadsheet is not shared with us
//	           Action: Share the sheet (or publish it) and try again
//	           Patterns: "access denied"
//
//	SHEET002 - Not found: The spreadsheet id does not exist
//	           Action: Check the spreadsheet id in the link
//	           Patterns: "not found - check"
//
//	SHEET003 - Tab not found: The export tab does not exist
//	           Action: Create the tab or choose another name
//	           Patterns: "tab not found"
//
//	SHEET004 - Upstream failure: The spreadsheet service returned an error
//	           Action: Please try again in a few moments
//	           Patterns: "unexpected status"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - File too large: Roster exceeds the configured size limit
//	IMP002 - Bad workbook: The file could not be opened as a workbook
//	IMP003 - No file: No file was selected
//	IMP004 - Unsupported type: The file extension is not csv, tsv or xlsx
//
// # Mapping Errors (MAP001-MAP099)
//
//	MAP001 - Empty mapping: No columns were mapped
//	MAP002 - Invalid mapping: Unknown field or bad column letter
//	MAP003 - Duplicate mapping: The same field is mapped twice
//	MAP004 - Preset not found
//	MAP005 - Preset exists: A preset with this name already exists
//	MAP006 - Preset name missing
//
// # Color Errors (COL001-COL099)
//
//	COL001 - Invalid color: A physician color is not a hex value
//	COL002 - Owner missing: Colors were saved without an owner
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Malformed request: The body could not be decoded
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Not configured: No spreadsheet credentials configured
//	EXP002 - Write failed: The values could not be written
//
// # Sync Errors (SYNC001-SYNC099)
//
//	SYNC001 - System busy: Too many syncs in progress
//	SYNC002 - Run not found: The sync run does not exist or was pruned
//	SYNC003 - Timeout: The sync took too long
//	SYNC004 - Cancelled: The request was cancelled
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate: A unique value already exists
//	DB002 - Connection refused: Unable to connect to database
//	DB003 - Timeout: Database operation timed out
//	DB004 - Not configured: History storage is disabled
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for
// the original technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Spreadsheet Errors (SHEET001-SHEET004)
	// =========================================================================
	{
		pattern: "access denied",
		msg: UserMessage{
			Message: "The spreadsheet is not shared with this service",
			Action:  "Share the sheet with view access or publish it, then try again",
			Code:    "SHEET001",
		},
	},
	{
		pattern: "tab not found",
		msg: UserMessage{
			Message: "The target tab does not exist",
			Action:  "Create the tab in the spreadsheet or choose another tab name",
			Code:    "SHEET003",
		},
	},
	{
		pattern: "not found - check",
		msg: UserMessage{
			Message: "Spreadsheet not found",
			Action:  "Check the spreadsheet id in the link",
			Code:    "SHEET002",
		},
	},
	{
		pattern: "unexpected status",
		msg: UserMessage{
			Message: "The spreadsheet service returned an error",
			Action:  "Please try again in a few moments",
			Code:    "SHEET004",
		},
	},

	// =========================================================================
	// Import Errors (IMP001-IMP004)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "Roster exceeds the maximum size limit",
			Action:  "Remove unused tabs or columns and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The file could not be opened as a workbook",
			Action:  "Save the file as .xlsx or export it as CSV",
			Code:    "IMP002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a roster file to import",
			Code:    "IMP003",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Upload a .csv, .tsv or .xlsx file",
			Code:    "IMP004",
		},
	},

	// =========================================================================
	// Mapping Errors (MAP001-MAP005)
	// =========================================================================
	{
		pattern: "mapping is empty",
		msg: UserMessage{
			Message: "No columns were mapped",
			Action:  "Map at least the name column before importing",
			Code:    "MAP001",
		},
	},
	{
		pattern: "unknown mapping field",
		msg: UserMessage{
			Message: "The mapping names an unknown field",
			Action:  "Check the field names in the column mapping",
			Code:    "MAP002",
		},
	},
	{
		pattern: "invalid mapping column",
		msg: UserMessage{
			Message: "The mapping uses an invalid column letter",
			Action:  "Use spreadsheet column letters such as A, B or AA",
			Code:    "MAP002",
		},
	},
	{
		pattern: "expected field=column",
		msg: UserMessage{
			Message: "The mapping could not be read",
			Action:  "Write each entry as field=Column, for example lastName=B",
			Code:    "MAP002",
		},
	},
	{
		pattern: "duplicate mapping field",
		msg: UserMessage{
			Message: "A field is mapped more than once",
			Action:  "Map each field to a single column",
			Code:    "MAP003",
		},
	},
	{
		pattern: "preset not found",
		msg: UserMessage{
			Message: "Mapping preset not found",
			Action:  "Refresh the preset list and pick another preset",
			Code:    "MAP004",
		},
	},
	{
		pattern: "preset already exists",
		msg: UserMessage{
			Message: "A preset with this name already exists",
			Action:  "Choose a different name or update the existing preset",
			Code:    "MAP005",
		},
	},

	{
		pattern: "preset name is required",
		msg: UserMessage{
			Message: "The preset needs a name",
			Action:  "Enter a name for the preset",
			Code:    "MAP006",
		},
	},

	// =========================================================================
	// Color Errors (COL001-COL002)
	// =========================================================================
	{
		pattern: "invalid color for",
		msg: UserMessage{
			Message: "One or more physician colors are invalid",
			Action:  "Use hex colors such as #1E88E5",
			Code:    "COL001",
		},
	},
	{
		pattern: "owner is required",
		msg: UserMessage{
			Message: "Colors must be saved for a user",
			Action:  "Sign in again and retry",
			Code:    "COL002",
		},
	},

	// =========================================================================
	// Request Errors (REQ001)
	// =========================================================================
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request format and try again",
			Code:    "REQ001",
		},
	},

	// =========================================================================
	// Export Errors (EXP001-EXP002)
	// =========================================================================
	{
		pattern: "spreadsheet client not configured",
		msg: UserMessage{
			Message: "Spreadsheet export is not configured",
			Action:  "Ask an administrator to configure spreadsheet credentials",
			Code:    "EXP001",
		},
	},
	{
		pattern: "write values",
		msg: UserMessage{
			Message: "The roster could not be written to the spreadsheet",
			Action:  "Check that the service has edit access and try again",
			Code:    "EXP002",
		},
	},

	// =========================================================================
	// Sync Errors (SYNC001-SYNC004)
	// Checked before the generic database timeout.
	// =========================================================================
	{
		pattern: "too many syncs",
		msg: UserMessage{
			Message: "System is busy processing other syncs",
			Action:  "Please wait a moment and try again",
			Code:    "SYNC001",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "Sync run not found",
			Action:  "The run may have been pruned. Start a new import",
			Code:    "SYNC002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The sync took too long",
			Action:  "Try again, or import a smaller range",
			Code:    "SYNC003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "SYNC004",
		},
	},

	// =========================================================================
	// Database Errors (DB001-DB004)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Use a different name",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Use a different name",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "database not configured",
		msg: UserMessage{
			Message: "History storage is not configured",
			Action:  "Set DATABASE_URL to keep sync history",
			Code:    "DB004",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := sheets.ErrAccessDenied
//	msg := MapError(err)
//	// msg.Code == "SHEET001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern (anything
// other than the ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
