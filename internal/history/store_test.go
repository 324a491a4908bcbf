package history

import (
	"path/filepath"
	"testing"
	"time"

	"toolup/pkg/backend"
	"toolup/pkg/install"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenAt(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestOpenDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()
}

func TestRecord(t *testing.T) {
	store := setupTestStore(t)

	entry := FromResult(install.Result{Tool: "git", Success: true, Backend: backend.Primary})

	if err := store.Record(entry); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestRecordSameTimestamp(t *testing.T) {
	store := setupTestStore(t)

	ts := time.Now()
	a := &Entry{Tool: "a", Timestamp: ts}
	b := &Entry{Tool: "b", Timestamp: ts}

	if err := store.Record(a, b); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Tool != "b" {
		t.Errorf("expected newest first, got %s", entries[0].Tool)
	}
}

func TestList(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 5; i++ {
		entry := FromResult(install.Result{Tool: "tool" + string(rune('a'+i)), Success: true})
		if err := store.Record(entry); err != nil {
			t.Fatal(err)
		}
		time.Sleep(1 * time.Millisecond) // Ensure different timestamps
	}

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("expected 5 entries, got %d", len(entries))
	}
	if entries[0].Tool != "toole" {
		t.Errorf("expected most recent first, got %s", entries[0].Tool)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("List(2) error: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 entries, got %d", len(limited))
	}
}

func TestForTool(t *testing.T) {
	store := setupTestStore(t)

	for _, tool := range []string{"git", "jq", "Git", "fzf", "git"} {
		if err := store.Record(FromResult(install.Result{Tool: tool})); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.ForTool("git", 0)
	if err != nil {
		t.Fatalf("ForTool() error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}

	limited, _ := store.ForTool("git", 1)
	if len(limited) != 1 {
		t.Errorf("expected 1 entry, got %d", len(limited))
	}
}

func TestLast(t *testing.T) {
	store := setupTestStore(t)

	last, err := store.Last()
	if err != nil || last != nil {
		t.Fatalf("Last() on empty store = %v, %v", last, err)
	}

	store.Record(FromResult(install.Result{Tool: "first"}))
	time.Sleep(1 * time.Millisecond)
	store.Record(FromResult(install.Result{Tool: "second"}))

	last, err = store.Last()
	if err != nil {
		t.Fatalf("Last() error: %v", err)
	}
	if last == nil || last.Tool != "second" {
		t.Errorf("Last() = %+v", last)
	}
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 3; i++ {
		store.Record(FromResult(install.Result{Tool: "jq"}))
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	count, _ := store.Count()
	if count != 0 {
		t.Errorf("expected 0 entries after clear, got %d", count)
	}
}

func TestPrune(t *testing.T) {
	store := setupTestStore(t)

	old := &Entry{Tool: "old", Timestamp: time.Now().Add(-48 * time.Hour)}
	recent := &Entry{Tool: "recent", Timestamp: time.Now()}
	if err := store.Record(old, recent); err != nil {
		t.Fatal(err)
	}

	deleted, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	entries, _ := store.List(0)
	if len(entries) != 1 || entries[0].Tool != "recent" {
		t.Errorf("remaining entries = %+v", entries)
	}
}
