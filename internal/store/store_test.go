package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates an in-memory SQLite store for testing
func createTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestOpen(t *testing.T) {
	t.Run("in-memory database", func(t *testing.T) {
		s, err := Open(":memory:")
		if err != nil {
			t.Fatalf("failed to open in-memory store: %v", err)
		}
		defer func() { _ = s.Close() }()

		if s.db == nil {
			t.Error("store database is nil")
		}
	})

	t.Run("file-based database in new directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "libi.db")

		s, err := Open(path)
		if err != nil {
			t.Fatalf("failed to open file-based store: %v", err)
		}
		if err := s.SetPref(context.Background(), KeyTheme, "dark"); err != nil {
			t.Fatalf("SetPref: %v", err)
		}
		_ = s.Close()

		reopened, err := Open(path)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer func() { _ = reopened.Close() }()

		got, ok, err := reopened.GetPref(context.Background(), KeyTheme)
		if err != nil || !ok || got != "dark" {
			t.Errorf("expected persisted theme dark, got %q %v %v", got, ok, err)
		}
	})
}

func TestPrefs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.GetPref(ctx, KeyUsername); err != nil || ok {
		t.Fatalf("expected missing pref, got ok=%v err=%v", ok, err)
	}

	if err := s.SetPref(ctx, KeyUsername, "rj"); err != nil {
		t.Fatalf("SetPref: %v", err)
	}
	if err := s.SetPref(ctx, KeyUsername, "cher"); err != nil {
		t.Fatalf("SetPref overwrite: %v", err)
	}
	if err := s.SetPref(ctx, KeyTheme, "light"); err != nil {
		t.Fatalf("SetPref: %v", err)
	}

	got, ok, err := s.GetPref(ctx, KeyUsername)
	if err != nil || !ok || got != "cher" {
		t.Errorf("expected cher, got %q ok=%v err=%v", got, ok, err)
	}

	all, err := s.Prefs(ctx)
	if err != nil {
		t.Fatalf("Prefs: %v", err)
	}
	if len(all) != 2 || all[KeyTheme] != "light" {
		t.Errorf("unexpected prefs: %v", all)
	}

	if err := s.DeletePref(ctx, KeyUsername); err != nil {
		t.Fatalf("DeletePref: %v", err)
	}
	if err := s.DeletePref(ctx, "missing"); err != nil {
		t.Fatalf("DeletePref of missing key: %v", err)
	}
	if _, ok, _ := s.GetPref(ctx, KeyUsername); ok {
		t.Error("expected username to be deleted")
	}
}

type payload struct {
	Items []string `json:"items"`
}

func TestSnapshots(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var out payload
	if _, err := s.LoadSnapshot(ctx, "rj", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	before := time.Now().Add(-time.Second)
	if err := s.SaveSnapshot(ctx, "rj", payload{Items: []string{"a"}}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := s.SaveSnapshot(ctx, "rj", payload{Items: []string{"a", "b"}}); err != nil {
		t.Fatalf("SaveSnapshot overwrite: %v", err)
	}

	fetchedAt, err := s.LoadSnapshot(ctx, "rj", &out)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(out.Items) != 2 {
		t.Errorf("expected latest snapshot, got %v", out.Items)
	}
	if fetchedAt.Before(before) {
		t.Errorf("unexpected fetched_at %v", fetchedAt)
	}
}

func TestCleanup(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.SaveSnapshot(ctx, "fresh", payload{}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour).Unix()
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO snapshots (username, payload, fetched_at) VALUES (?, ?, ?)", "stale", "{}", old,
	); err != nil {
		t.Fatalf("insert stale snapshot: %v", err)
	}

	deleted, err := s.Cleanup(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted snapshot, got %d", deleted)
	}

	var out payload
	if _, err := s.LoadSnapshot(ctx, "fresh", &out); err != nil {
		t.Errorf("expected fresh snapshot to survive: %v", err)
	}
}

func TestClear(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_ = s.SetPref(ctx, KeyUsername, "rj")
	_ = s.SaveSnapshot(ctx, "rj", payload{})

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	all, err := s.Prefs(ctx)
	if err != nil || len(all) != 0 {
		t.Errorf("expected no prefs, got %v (err %v)", all, err)
	}
	var out payload
	if _, err := s.LoadSnapshot(ctx, "rj", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected snapshot to be cleared, got %v", err)
	}
}
