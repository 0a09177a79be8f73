package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	rec := Record{RoomCode: "attic", PlayerID: "p1"}
	if err := store.Save(ctx, "sess-1", rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Lookup(ctx, "sess-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != rec {
		t.Errorf("lookup = %+v, want %+v", got, rec)
	}

	if _, err := store.Lookup(ctx, "sess-2"); err != ErrNotFound {
		t.Errorf("unknown session: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Save(ctx, "sess-1", Record{RoomCode: "attic", PlayerID: "p1"})

	// Inside the grace window the record survives.
	now = now.Add(59 * time.Second)
	if _, err := store.Lookup(ctx, "sess-1"); err != nil {
		t.Fatalf("lookup inside window: %v", err)
	}

	// After the window it reads as a fresh join.
	now = now.Add(2 * time.Second)
	if _, err := store.Lookup(ctx, "sess-1"); err != ErrNotFound {
		t.Fatalf("lookup after window: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	store.Save(ctx, "sess-1", Record{RoomCode: "attic", PlayerID: "p1"})
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Lookup(ctx, "sess-1"); err != ErrNotFound {
		t.Errorf("deleted session: err = %v, want ErrNotFound", err)
	}
}

func TestRedisKeySchema(t *testing.T) {
	if got := key("abc123"); got != "session:abc123" {
		t.Errorf("key = %q, want session:abc123", got)
	}
}

func TestProbeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore(time.Minute)

	done := make(chan struct{})
	go func() {
		Probe(ctx, store, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("probe did not stop on cancellation")
	}
}
