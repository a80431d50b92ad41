// Package roster turns loosely structured ward-roster spreadsheets into
// canonical patient records.
//
// # Pipeline
//
//  1. [DecodeText] / [ReadXLSX] normalize the raw input
//  2. [Tokenize] splits delimited text into a [Grid]
//  3. [Scan] labels every row (skip, column header, section header, ward
//     header, data) while carrying the current section and ward
//  4. [Build] maps data rows to [Record] values through a [Mapping]
//
// # Ward Context
//
// Roster sheets group patients under header rows rather than in a ward
// column. A section header ("Male list (active)") resets the ward; a ward
// header ("ICU", "(Unassigned)", "Ward 10") sets it. A record's WardID is the
// explicitly mapped ward cell when present, otherwise "section - ward"
// derived from the nearest headers above it.
//
// # Data Quality
//
// Nothing in this package fails on bad data. Unparsable acuity becomes 3,
// unknown code status becomes full code, and rows that do not resolve to a
// patient name are reported in [ParseResult.Dropped] instead of as errors.
// The package holds no state between calls; every scan starts from an empty
// [State].
package roster
