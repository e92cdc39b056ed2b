package journal

import (
	"context"
	"testing"
	"time"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndEntries(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	input := []Entry{
		{Session: "a", Seq: 2, Source: "(+ x 1)", Result: "2", Type: "int"},
		{Session: "a", Seq: 1, Source: "(define x 1)", Result: "1", Type: "int"},
		{Session: "b", Seq: 1, Source: "y", Failure: "Error: undefined symbol y."},
		{Session: "a", Seq: 3, Source: "(first 1)", Failure: "Error: first expects argument of type [x], given int."},
	}
	for _, e := range input {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	entries, err := store.Entries(ctx, "a")
	if err != nil {
		t.Fatalf("entries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Seq != i+1 {
			t.Errorf("entry %d has seq %d", i, e.Seq)
		}
		if e.At.IsZero() {
			t.Errorf("entry %d has no timestamp", i)
		}
	}
	if entries[0].Source != "(define x 1)" || !entries[0].Succeeded() {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[2].Succeeded() {
		t.Errorf("expected the third entry to be a failure")
	}

	missing, err := store.Entries(ctx, "none")
	if err != nil {
		t.Fatalf("entries failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected no entries, got %d", len(missing))
	}
}

func TestDuplicateSeqFails(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)
	e := Entry{Session: "a", Seq: 1, Source: "1", Result: "1", Type: "int"}
	if err := store.Record(ctx, e); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := store.Record(ctx, e); err == nil {
		t.Errorf("expected a primary key violation")
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)
	base := time.Unix(1000, 0)

	store.Record(ctx, Entry{Session: "late", Seq: 1, Source: "1", At: base.Add(time.Second)})
	store.Record(ctx, Entry{Session: "early", Seq: 1, Source: "1", At: base})
	store.Record(ctx, Entry{Session: "early", Seq: 2, Source: "2", At: base.Add(2 * time.Second)})

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if len(sessions) != 2 || sessions[0] != "early" || sessions[1] != "late" {
		t.Errorf("unexpected sessions %v", sessions)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", "x"); err == nil {
		t.Errorf("expected an error for an unknown driver")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	store, err := Open(context.Background(), "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver   string
		expected string
	}{
		{"sqlite3", "a = ? AND b = ?"},
		{"mysql", "a = ? AND b = ?"},
		{"postgres", "a = $1 AND b = $2"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s := &Store{driver: tt.driver}
			if got := s.rebind("a = ? AND b = ?"); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
