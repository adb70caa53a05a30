package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "grantlint.db"), 2*time.Second)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveLoad(t *testing.T) {
	store := openStore(t)

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	first := Snapshot{
		ProjectKey:       "widget",
		Timestamp:        base,
		FilesScanned:     4,
		IdentifiersFound: 3,
		MissingCount:     1,
		UnusedCount:      0,
		Passed:           false,
	}
	second := Snapshot{
		ProjectKey:       "widget",
		Timestamp:        base.Add(2 * time.Hour),
		FilesScanned:     4,
		IdentifiersFound: 3,
		MissingCount:     0,
		UnusedCount:      2,
		Passed:           true,
	}

	saved, err := store.SaveSnapshot(first)
	if err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}
	if saved.RunID == "" {
		t.Fatal("expected generated run id")
	}
	if _, err := store.SaveSnapshot(second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	got, err := store.LoadSnapshots("widget", time.Time{})
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if got[0].MissingCount != 1 || got[0].Passed {
		t.Fatalf("expected failing first run, got %+v", got[0])
	}
	if got[1].UnusedCount != 2 || !got[1].Passed {
		t.Fatalf("expected passing second run, got %+v", got[1])
	}

	since, err := store.LoadSnapshots("widget", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("load since: %v", err)
	}
	if len(since) != 1 {
		t.Fatalf("expected since filter to keep 1 snapshot, got %d", len(since))
	}
}

func TestStore_ProjectKeyIsolation(t *testing.T) {
	store := openStore(t)

	if _, err := store.SaveSnapshot(Snapshot{ProjectKey: "a", MissingCount: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSnapshot(Snapshot{ProjectKey: "b", MissingCount: 2}); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadSnapshots("a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].MissingCount != 1 {
		t.Fatalf("expected only project-a rows, got %+v", got)
	}
}

func TestStore_RejectsDirectoryPath(t *testing.T) {
	if _, err := Open(t.TempDir(), 2*time.Second); err == nil {
		t.Fatal("expected error when history path is a directory")
	}
}

func TestComputeTrend(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	if _, err := store.SaveSnapshot(Snapshot{Timestamp: base, MissingCount: 3, UnusedCount: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSnapshot(Snapshot{Timestamp: base.Add(time.Hour), MissingCount: 1, UnusedCount: 2, Passed: false}); err != nil {
		t.Fatal(err)
	}

	trend, err := store.ComputeTrend("")
	if err != nil {
		t.Fatalf("compute trend: %v", err)
	}
	if !trend.HasPrevious {
		t.Fatal("expected a previous run")
	}
	if trend.MissingDelta != -2 || trend.UnusedDelta != 1 {
		t.Fatalf("expected deltas -2/+1, got %d/%d", trend.MissingDelta, trend.UnusedDelta)
	}
}

func TestComputeTrend_Empty(t *testing.T) {
	store := openStore(t)
	if _, err := store.ComputeTrend("nothing"); err == nil {
		t.Fatal("expected error for empty history")
	}
}
