package core

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

// MemStore is an in-process Store used when no database is configured and
// in tests. Everything is lost on restart.
type MemStore struct {
	mu      sync.RWMutex
	runs    map[string]SyncRun
	records map[string][]roster.Record
	presets map[string]MappingPreset
	colors  map[string]map[string]string
	now     func() time.Time
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		runs:    make(map[string]SyncRun),
		records: make(map[string][]roster.Record),
		presets: make(map[string]MappingPreset),
		colors:  make(map[string]map[string]string),
		now:     time.Now,
	}
}

func (m *MemStore) SaveRun(_ context.Context, run SyncRun, records []roster.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	m.records[run.ID] = slices.Clone(records)
	return nil
}

func (m *MemStore) GetRun(_ context.Context, id string) (SyncRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return SyncRun{}, ErrRunNotFound
	}
	return run, nil
}

// ListRuns returns runs newest first.
func (m *MemStore) ListRuns(_ context.Context, p ListRunsParams) ([]SyncRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]SyncRun, 0, len(m.runs))
	for _, r := range m.runs {
		if p.Kind != "" && r.Kind != p.Kind {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].StartedAt.After(result[j].StartedAt)
		}
		return result[i].ID > result[j].ID
	})

	if p.Offset >= len(result) {
		return []SyncRun{}, nil
	}
	result = result[max(p.Offset, 0):]
	if limit := limitOrDefault(p.Limit); len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MemStore) RunRecords(_ context.Context, id string) ([]roster.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.runs[id]; !ok {
		return nil, ErrRunNotFound
	}
	return slices.Clone(m.records[id]), nil
}

func (m *MemStore) PruneRuns(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.runs {
		if r.FinishedAt.Before(cutoff) {
			delete(m.runs, id)
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

// ListPresets returns presets ordered by name.
func (m *MemStore) ListPresets(_ context.Context) ([]MappingPreset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := slices.Collect(maps.Values(m.presets))
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (m *MemStore) GetPreset(_ context.Context, id string) (MappingPreset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.presets[id]
	if !ok {
		return MappingPreset{}, ErrPresetNotFound
	}
	return p, nil
}

func (m *MemStore) nameTaken(name, exceptID string) bool {
	for id, p := range m.presets {
		if id != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (m *MemStore) CreatePreset(_ context.Context, name string, mapping roster.Mapping) (MappingPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(name, "") {
		return MappingPreset{}, ErrPresetExists
	}
	now := m.now().UTC()
	p := MappingPreset{
		ID:        uuid.NewString(),
		Name:      name,
		Mapping:   slices.Clone(mapping),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.presets[p.ID] = p
	return p, nil
}

func (m *MemStore) UpdatePreset(_ context.Context, id, name string, mapping roster.Mapping) (MappingPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.presets[id]
	if !ok {
		return MappingPreset{}, ErrPresetNotFound
	}
	if m.nameTaken(name, id) {
		return MappingPreset{}, ErrPresetExists
	}
	p.Name = name
	p.Mapping = slices.Clone(mapping)
	p.UpdatedAt = m.now().UTC()
	m.presets[id] = p
	return p, nil
}

func (m *MemStore) DeletePreset(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presets[id]; !ok {
		return ErrPresetNotFound
	}
	delete(m.presets, id)
	return nil
}

func (m *MemStore) DoctorColors(_ context.Context, owner string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.colors[owner]), nil
}

func (m *MemStore) PutDoctorColors(_ context.Context, owner string, colors map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(colors) == 0 {
		delete(m.colors, owner)
		return nil
	}
	m.colors[owner] = maps.Clone(colors)
	return nil
}

func (m *MemStore) Ping(context.Context) error { return nil }
