package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T, ttl time.Duration) *SQLite {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"), ttl)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteUnseenKeyIsEmpty(t *testing.T) {
	store := newTestSQLite(t, time.Hour)

	token, err := store.Get(context.Background(), "C_NEVER_SEEN")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token for unseen key, got %q", token)
	}
}

func TestSQLiteReadYourWrite(t *testing.T) {
	store := newTestSQLite(t, time.Hour)
	ctx := context.Background()

	if err := store.Set(ctx, "C1", "S1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	token, err := store.Get(ctx, "C1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "S1" {
		t.Errorf("expected S1, got %q", token)
	}
}

func TestSQLiteLastWriteWins(t *testing.T) {
	store := newTestSQLite(t, time.Hour)
	ctx := context.Background()

	if err := store.Set(ctx, "C1", "S1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "C2", "S2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "C1", "S1-rotated"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	token, _ := store.Get(ctx, "C1")
	if token != "S1-rotated" {
		t.Errorf("expected overwrite to win, got %q", token)
	}
	other, _ := store.Get(ctx, "C2")
	if other != "S2" {
		t.Errorf("unrelated key changed, got %q", other)
	}
}

func TestSQLiteExpiresAfterTTL(t *testing.T) {
	store := newTestSQLite(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }

	if err := store.Set(ctx, "C1", "S1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	token, err := store.Get(ctx, "C1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "" {
		t.Errorf("expected expired mapping to be gone, got %q", token)
	}
}

func TestSQLiteSetRefreshesExpiry(t *testing.T) {
	store := newTestSQLite(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }
	if err := store.Set(ctx, "C1", "S1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	store.now = func() time.Time { return base.Add(45 * time.Minute) }
	if err := store.Set(ctx, "C1", "S2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	store.now = func() time.Time { return base.Add(90 * time.Minute) }
	token, err := store.Get(ctx, "C1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "S2" {
		t.Errorf("expected refreshed mapping to survive, got %q", token)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	store, err := NewSQLite(path, time.Hour)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := store.Set(ctx, "C1", "S1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	store.Close()

	reopened, err := NewSQLite(path, time.Hour)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	token, err := reopened.Get(ctx, "C1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "S1" {
		t.Errorf("expected mapping to survive reopen, got %q", token)
	}
}
