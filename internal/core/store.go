package core

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

// Store errors. Implementations wrap or return these so callers can use
// errors.Is regardless of the backend.
var (
	ErrRunNotFound    = errors.New("sync run not found")
	ErrPresetNotFound = errors.New("mapping preset not found")
	ErrPresetExists   = errors.New("mapping preset already exists")
)

// ListRunsParams filters the sync history. Zero values mean no filter.
type ListRunsParams struct {
	Kind   RunKind
	Limit  int
	Offset int
}

// DefaultRunLimit caps ListRuns when no limit is given.
const DefaultRunLimit = 50

// Store keeps sync history, staged records, mapping presets and per-owner
// doctor colors. The roster engine itself never touches it.
type Store interface {
	// SaveRun records a finished run with the records it produced (imports)
	// or sent (exports). Records may be empty.
	SaveRun(ctx context.Context, run SyncRun, records []roster.Record) error
	GetRun(ctx context.Context, id string) (SyncRun, error)
	ListRuns(ctx context.Context, p ListRunsParams) ([]SyncRun, error)
	RunRecords(ctx context.Context, id string) ([]roster.Record, error)
	// PruneRuns deletes runs that finished before cutoff and returns how
	// many were removed.
	PruneRuns(ctx context.Context, cutoff time.Time) (int64, error)

	ListPresets(ctx context.Context) ([]MappingPreset, error)
	GetPreset(ctx context.Context, id string) (MappingPreset, error)
	CreatePreset(ctx context.Context, name string, m roster.Mapping) (MappingPreset, error)
	UpdatePreset(ctx context.Context, id, name string, m roster.Mapping) (MappingPreset, error)
	DeletePreset(ctx context.Context, id string) error

	// DoctorColors returns physician -> hex color for owner.
	DoctorColors(ctx context.Context, owner string) (map[string]string, error)
	// PutDoctorColors replaces every color stored for owner.
	PutDoctorColors(ctx context.Context, owner string, colors map[string]string) error

	Ping(ctx context.Context) error
}

func limitOrDefault(n int) int {
	if n <= 0 || n > 500 {
		return DefaultRunLimit
	}
	return n
}
