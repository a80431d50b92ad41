package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

func run(id string, kind RunKind, started time.Time) SyncRun {
	return SyncRun{ID: id, Kind: kind, Status: RunSucceeded, StartedAt: started, FinishedAt: started.Add(time.Second)}
}

func TestMemStore_ListRuns(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		kind := RunImport
		if i%2 == 1 {
			kind = RunExport
		}
		if err := s.SaveRun(ctx, run(fmt.Sprintf("r%d", i), kind, base.Add(time.Duration(i)*time.Minute)), nil); err != nil {
			t.Fatal(err)
		}
	}

	ids := func(runs []SyncRun) []string {
		out := make([]string, len(runs))
		for i, r := range runs {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name string
		p    ListRunsParams
		want []string
	}{
		{"newest first", ListRunsParams{}, []string{"r4", "r3", "r2", "r1", "r0"}},
		{"kind filter", ListRunsParams{Kind: RunExport}, []string{"r3", "r1"}},
		{"limit", ListRunsParams{Limit: 2}, []string{"r4", "r3"}},
		{"offset", ListRunsParams{Limit: 2, Offset: 3}, []string{"r1", "r0"}},
		{"offset past end", ListRunsParams{Offset: 10}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListRuns(ctx, tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("ListRuns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMemStore_RunRecordsIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	records := []roster.Record{{LastName: "Doe"}}

	if err := s.SaveRun(ctx, run("r1", RunImport, time.Now()), records); err != nil {
		t.Fatal(err)
	}
	records[0].LastName = "changed"

	got, err := s.RunRecords(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].LastName != "Doe" {
		t.Errorf("stored record changed with caller slice: %q", got[0].LastName)
	}

	if _, err := s.RunRecords(ctx, "missing"); err != ErrRunNotFound {
		t.Errorf("RunRecords(missing) error = %v, want ErrRunNotFound", err)
	}
}

func TestMemStore_PruneRuns(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	now := time.Now()

	_ = s.SaveRun(ctx, run("old", RunImport, now.Add(-48*time.Hour)), []roster.Record{{LastName: "A"}})
	_ = s.SaveRun(ctx, run("new", RunImport, now), nil)

	n, err := s.PruneRuns(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
	if _, err := s.GetRun(ctx, "old"); err != ErrRunNotFound {
		t.Errorf("old run still present: %v", err)
	}
	if _, err := s.GetRun(ctx, "new"); err != nil {
		t.Errorf("new run pruned: %v", err)
	}
}

func TestMemStore_Presets(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	m := roster.Mapping{{Field: roster.FieldLastName, Column: "B"}}

	icu, err := s.CreatePreset(ctx, "ICU", m)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePreset(ctx, "icu", m); err != ErrPresetExists {
		t.Errorf("duplicate name (case-insensitive) error = %v, want ErrPresetExists", err)
	}
	hdu, err := s.CreatePreset(ctx, "HDU", m)
	if err != nil {
		t.Fatal(err)
	}

	list, _ := s.ListPresets(ctx)
	if len(list) != 2 || list[0].Name != "HDU" || list[1].Name != "ICU" {
		t.Errorf("ListPresets = %+v, want HDU then ICU", list)
	}

	if _, err := s.UpdatePreset(ctx, hdu.ID, "ICU", m); err != ErrPresetExists {
		t.Errorf("rename onto existing name error = %v, want ErrPresetExists", err)
	}
	updated, err := s.UpdatePreset(ctx, icu.ID, "ICU East", m)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "ICU East" || !updated.CreatedAt.Equal(icu.CreatedAt) {
		t.Errorf("updated = %+v", updated)
	}

	if err := s.DeletePreset(ctx, icu.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPreset(ctx, icu.ID); err != ErrPresetNotFound {
		t.Errorf("GetPreset after delete error = %v, want ErrPresetNotFound", err)
	}
	if err := s.DeletePreset(ctx, icu.ID); err != ErrPresetNotFound {
		t.Errorf("second delete error = %v, want ErrPresetNotFound", err)
	}
}

func TestMemStore_DoctorColors(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if err := s.PutDoctorColors(ctx, "a", map[string]string{"Dr. Smith": "#FF0000"}); err != nil {
		t.Fatal(err)
	}
	_ = s.PutDoctorColors(ctx, "b", map[string]string{"Dr. Jones": "#00FF00"})

	got, _ := s.DoctorColors(ctx, "a")
	if diff := cmp.Diff(map[string]string{"Dr. Smith": "#FF0000"}, got); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}

	// replace, not merge
	_ = s.PutDoctorColors(ctx, "a", map[string]string{"Dr. Lee": "#0000FF"})
	got, _ = s.DoctorColors(ctx, "a")
	if diff := cmp.Diff(map[string]string{"Dr. Lee": "#0000FF"}, got); diff != "" {
		t.Errorf("colors after replace mismatch (-want +got):\n%s", diff)
	}

	_ = s.PutDoctorColors(ctx, "a", nil)
	if got, _ := s.DoctorColors(ctx, "a"); len(got) != 0 {
		t.Errorf("colors after clear = %v", got)
	}
}
