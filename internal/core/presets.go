package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/rostersync/internal/roster"
	"github.com/JonMunkholm/rostersync/internal/sheets"
)

// CreatePreset stores a named mapping.
func (s *Service) CreatePreset(ctx context.Context, name string, m roster.Mapping) (MappingPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MappingPreset{}, fmt.Errorf("preset name is required")
	}
	if err := m.Validate(); err != nil {
		return MappingPreset{}, err
	}
	return s.store.CreatePreset(ctx, name, m)
}

// GetPreset retrieves a preset by ID.
func (s *Service) GetPreset(ctx context.Context, id string) (MappingPreset, error) {
	return s.store.GetPreset(ctx, id)
}

// ListPresets returns all presets ordered by name.
func (s *Service) ListPresets(ctx context.Context) ([]MappingPreset, error) {
	return s.store.ListPresets(ctx)
}

// UpdatePreset renames a preset and replaces its mapping.
func (s *Service) UpdatePreset(ctx context.Context, id, name string, m roster.Mapping) (MappingPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MappingPreset{}, fmt.Errorf("preset name is required")
	}
	if err := m.Validate(); err != nil {
		return MappingPreset{}, err
	}
	return s.store.UpdatePreset(ctx, id, name, m)
}

// DeletePreset removes a preset.
func (s *Service) DeletePreset(ctx context.Context, id string) error {
	return s.store.DeletePreset(ctx, id)
}

// DoctorColors returns the owner's physician colors.
func (s *Service) DoctorColors(ctx context.Context, owner string) (map[string]string, error) {
	colors, err := s.store.DoctorColors(ctx, owner)
	if err != nil {
		return nil, err
	}
	if colors == nil {
		colors = make(map[string]string)
	}
	return colors, nil
}

// InvalidColorsError lists physicians whose color could not be parsed.
type InvalidColorsError struct {
	Physicians []string
}

func (e *InvalidColorsError) Error() string {
	return fmt.Sprintf("invalid color for %s", strings.Join(e.Physicians, ", "))
}

// PutDoctorColors replaces the owner's physician colors. Colors are stored
// normalized as #RRGGBB. Nothing is stored if any entry is invalid.
func (s *Service) PutDoctorColors(ctx context.Context, owner string, colors map[string]string) (map[string]string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, fmt.Errorf("owner is required")
	}

	normalized := make(map[string]string, len(colors))
	var bad []string
	for physician, hex := range colors {
		name := strings.TrimSpace(physician)
		if name == "" {
			continue
		}
		c, err := sheets.ParseHex(hex)
		if err != nil {
			bad = append(bad, name)
			continue
		}
		normalized[name] = c.Hex()
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, &InvalidColorsError{Physicians: bad}
	}

	if err := s.store.PutDoctorColors(ctx, owner, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
