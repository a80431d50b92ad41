package core

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

// DecodeOptions are passed to a Format's decoder.
type DecodeOptions struct {
	// Limit caps the bytes read. Zero means no limit.
	Limit int64
	// Sheet selects a worksheet for workbook formats. Empty uses the first.
	Sheet string
}

// Format turns an uploaded roster file into a grid.
type Format struct {
	Key        string                                                     `json:"key"`
	Label      string                                                     `json:"label"`
	Extensions []string                                                   `json:"extensions"`
	Decode     func(r io.Reader, opts DecodeOptions) (roster.Grid, error) `json:"-"`
}

var (
	formats   = make(map[string]Format)
	formatsMu sync.RWMutex
)

// RegisterFormat adds a file format to the registry.
// Panics if a format with the same key is already registered.
func RegisterFormat(f Format) {
	formatsMu.Lock()
	defer formatsMu.Unlock()

	if _, exists := formats[f.Key]; exists {
		panic(fmt.Sprintf("format already registered: %s", f.Key))
	}
	for i, ext := range f.Extensions {
		f.Extensions[i] = strings.ToLower(ext)
	}
	formats[f.Key] = f
}

// GetFormat returns a format by key.
func GetFormat(key string) (Format, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	f, ok := formats[key]
	return f, ok
}

// Formats returns all registered formats sorted by key.
func Formats() []Format {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	result := make([]Format, 0, len(formats))
	for _, f := range formats {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// FormatForFile picks a format from the file name's extension.
func FormatForFile(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return Format{}, fmt.Errorf("unsupported file type: %q has no extension", name)
	}

	formatsMu.RLock()
	defer formatsMu.RUnlock()
	for _, f := range formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, nil
			}
		}
	}
	return Format{}, fmt.Errorf("unsupported file type: %s", ext)
}

func decodeDelimited(delim rune) func(io.Reader, DecodeOptions) (roster.Grid, error) {
	return func(r io.Reader, opts DecodeOptions) (roster.Grid, error) {
		text, err := roster.ReadText(r, opts.Limit)
		if err != nil {
			return nil, err
		}
		return roster.TokenizeDelimited(text, delim), nil
	}
}

func decodeWorkbook(r io.Reader, opts DecodeOptions) (roster.Grid, error) {
	if opts.Limit <= 0 {
		return roster.ReadXLSX(r, opts.Sheet)
	}
	data, err := io.ReadAll(io.LimitReader(r, opts.Limit+1))
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	if int64(len(data)) > opts.Limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", roster.ErrInputTooLarge, opts.Limit)
	}
	return roster.ReadXLSX(bytes.NewReader(data), opts.Sheet)
}

func init() {
	RegisterFormat(Format{
		Key:        "csv",
		Label:      "Comma-separated values",
		Extensions: []string{".csv", ".txt"},
		Decode:     decodeDelimited(','),
	})
	RegisterFormat(Format{
		Key:        "tsv",
		Label:      "Tab-separated values",
		Extensions: []string{".tsv", ".tab"},
		Decode:     decodeDelimited('\t'),
	})
	RegisterFormat(Format{
		Key:        "xlsx",
		Label:      "Excel workbook",
		Extensions: []string{".xlsx", ".xlsm"},
		Decode:     decodeWorkbook,
	})
}
