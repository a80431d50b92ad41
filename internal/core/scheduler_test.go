package core

import (
	"context"
	"testing"
	"time"
)

func TestRunRetentionJob(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	svc := NewService(store, nil, nil, Options{})
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_ = store.SaveRun(ctx, run("old", RunImport, now.AddDate(0, 0, -31)), nil)
	_ = store.SaveRun(ctx, run("recent", RunImport, now.AddDate(0, 0, -2)), nil)

	if n := svc.runRetentionJob(ctx, RetentionConfig{HistoryDays: 30}); n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
	runs, _ := store.ListRuns(ctx, ListRunsParams{})
	if len(runs) != 1 || runs[0].ID != "recent" {
		t.Errorf("remaining runs = %+v", runs)
	}
}

func TestStartRetentionScheduler_StopsOnCancel(t *testing.T) {
	svc := NewService(NewMemStore(), nil, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartRetentionScheduler(ctx, RetentionConfig{CheckInterval: time.Millisecond})
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestRetentionConfig_Defaults(t *testing.T) {
	cfg := RetentionConfig{}.withDefaults()
	if cfg.HistoryDays != 30 || cfg.CheckInterval != 6*time.Hour {
		t.Errorf("defaults = %+v", cfg)
	}
}
