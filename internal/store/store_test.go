package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type payload struct {
	Names []string `json:"names"`
	Count int      `json:"count"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cannot open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := payload{Names: []string{"Alien", "Aliens"}, Count: 2}
	if err := s.Put("home", in); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	var out payload
	savedAt, err := s.Get("home", &out)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out.Count != 2 || len(out.Names) != 2 || out.Names[0] != "Alien" {
		t.Errorf("unexpected payload: %+v", out)
	}
	if savedAt.IsZero() || time.Since(savedAt) > time.Minute {
		t.Errorf("unexpected save time: %v", savedAt)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	var out payload
	if _, err := s.Get("nope", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("home", payload{Count: 1}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Put("home", payload{Count: 2}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	var out payload
	if _, err := s.Get("home", &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("expected latest value, got %+v", out)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("home", payload{Count: 1}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Delete("home"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var out payload
	if _, err := s.Get("home", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// deleting again is fine
	if err := s.Delete("home"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	for _, key := range []string{"home", "catalog:lib1", "catalog:lib2"} {
		if err := s.Put(key, payload{Count: 1}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	var out payload
	for _, key := range []string{"home", "catalog:lib1", "catalog:lib2"} {
		if _, err := s.Get(key, &out); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected %s cleared, got %v", key, err)
		}
	}

	// the store stays usable after a clear
	if err := s.Put("home", payload{Count: 3}); err != nil {
		t.Errorf("put after clear failed: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("cannot open store: %v", err)
	}
	if err := s.Put("home", payload{Count: 7}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("cannot reopen store: %v", err)
	}
	defer s.Close()

	var out payload
	if _, err := s.Get("home", &out); err != nil {
		t.Fatalf("get after reopen failed: %v", err)
	}
	if out.Count != 7 {
		t.Errorf("expected persisted value, got %+v", out)
	}
}
