// Package sheets talks to the remote spreadsheet service: it fetches roster
// text for import and writes canonical records back out as a formatted tab.
//
// Fetching goes through the public CSV export endpoint when no credential is
// configured, and through the authenticated values API otherwise. Exporting
// always needs a credential with write access.
//
// An export is three sequential round trips (tab lookup, values write,
// formatting batch). Only the first two can fail an export; a failed
// formatting batch is logged and the export still reports success.
package sheets
