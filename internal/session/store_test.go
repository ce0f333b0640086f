package session

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

var sessionIDPattern = regexp.MustCompile(`^session_\d+_[0-9a-f]{9}$`)

type failingStore struct {
	getErr error
	setErr error
}

func (f *failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, f.getErr
}

func (f *failingStore) Set(context.Context, string, string) error {
	return f.setErr
}

func TestNewID_Format(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewID(now)
	if !sessionIDPattern.MatchString(id) {
		t.Fatalf("unexpected id format %q", id)
	}
	if id[:22] != "session_1700000000123_" {
		t.Fatalf("expected millis prefix, got %q", id)
	}
	if NewID(now) == id {
		t.Fatalf("expected random suffix to differ between calls")
	}
}

func TestEnsureID_GeneratesAndPersistsOnFirstLoad(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := EnsureID(ctx, store, nil)
	if err != nil {
		t.Fatalf("ensure id: %v", err)
	}
	if !sessionIDPattern.MatchString(id) {
		t.Fatalf("unexpected id format %q", id)
	}
	stored, ok, _ := store.Get(ctx, Key)
	if !ok || stored != id {
		t.Fatalf("expected id to be persisted under %q, got %q ok=%v", Key, stored, ok)
	}
}

func TestEnsureID_ReusesStoredValue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Set(ctx, Key, "session_1_existing")

	for i := 0; i < 3; i++ {
		id, err := EnsureID(ctx, store, nil)
		if err != nil {
			t.Fatalf("ensure id: %v", err)
		}
		if id != "session_1_existing" {
			t.Fatalf("expected stored id to be reused, got %q", id)
		}
	}
}

func TestEnsureID_PropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	if _, err := EnsureID(ctx, &failingStore{getErr: boom}, nil); !errors.Is(err, boom) {
		t.Fatalf("expected get error, got %v", err)
	}
	if _, err := EnsureID(ctx, &failingStore{setErr: boom}, nil); !errors.Is(err, boom) {
		t.Fatalf("expected set error, got %v", err)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	ctx := context.Background()

	first, err := EnsureID(ctx, NewFileStore(path), nil)
	if err != nil {
		t.Fatalf("ensure id: %v", err)
	}

	second, err := EnsureID(ctx, NewFileStore(path), nil)
	if err != nil {
		t.Fatalf("ensure id on reload: %v", err)
	}
	if first != second {
		t.Fatalf("expected reload to reuse %q, got %q", first, second)
	}
}

func TestFileStore_MissingKey(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	v, ok, err := store.Get(context.Background(), Key)
	if err != nil || ok || v != "" {
		t.Fatalf("expected empty miss, got v=%q ok=%v err=%v", v, ok, err)
	}
}
