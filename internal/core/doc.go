// Package core runs roster syncs on behalf of the web and CLI front ends.
//
// The roster package turns a grid into records and the sheets package talks
// to the spreadsheet service; core ties them together and keeps the
// surrounding state that neither of them owns:
//
//   - Service: entry point for imports (spreadsheet or uploaded file),
//     exports (remote tab or local workbook) and the sync history.
//   - Store: sync runs with their staged records, mapping presets and
//     per-owner doctor colors. [PGStore] backs it with PostgreSQL,
//     [MemStore] keeps it in process when no database is configured.
//   - Format registry: maps upload extensions to decoders, see
//     [RegisterFormat] and [FormatForFile].
//   - SyncLimiter: caps concurrent syncs so a burst of requests cannot
//     exhaust the spreadsheet API quota.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - SHEET001-SHEET004: Spreadsheet access and upstream failures
//   - IMP001-IMP004: Uploaded file errors
//   - MAP001-MAP005: Column mapping and preset errors
//   - EXP001-EXP002: Export errors
//   - SYNC001-SYNC004: Concurrency, timeout and history lookups
//   - DB001-DB004: Storage errors
//
// # Retention
//
// Old runs are pruned by [Service.StartRetentionScheduler].
package core
