package dialog_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bdobrica/Selah/internal/selah/dialog"
	"github.com/bdobrica/Selah/internal/selah/store"
)

// newTestStore opens a temporary SQLite database (with migrations applied)
// and returns a dialog.Store backed by it. The DB is closed when the test
// ends.
func newTestStore(t *testing.T, ttl time.Duration) *dialog.Store {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "dialog-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	f.Close()

	s, err := store.New(f.Name())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return dialog.NewStore(s.DB(), ttl)
}

func TestStore_BeginAndPending(t *testing.T) {
	ds := newTestStore(t, time.Hour)
	ctx := context.Background()

	st, err := ds.Begin(ctx, "!room:example.com", "@alice:example.com", cits("John 3:16"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if st.ID == "" {
		t.Error("expected non-empty ID")
	}
	if !st.ExpiresAt.After(st.CreatedAt) {
		t.Errorf("expiry %v not after creation %v", st.ExpiresAt, st.CreatedAt)
	}

	got, err := ds.Pending(ctx, "!room:example.com", "@alice:example.com")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if got == nil {
		t.Fatal("expected a pending dialog")
	}
	if got.ID != st.ID {
		t.Errorf("ID mismatch: %q vs %q", got.ID, st.ID)
	}
	if len(got.Citations) != 1 || got.Citations[0].FullRef != "John 3:16" {
		t.Errorf("citations not round-tripped: %#v", got.Citations)
	}
}

func TestStore_PendingNone(t *testing.T) {
	ds := newTestStore(t, time.Hour)
	got, err := ds.Pending(context.Background(), "!room:example.com", "@alice:example.com")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %#v", got)
	}
}

func TestStore_PendingScopedToRoomAndSender(t *testing.T) {
	ds := newTestStore(t, time.Hour)
	ctx := context.Background()

	if _, err := ds.Begin(ctx, "!room:example.com", "@alice:example.com", cits("John 3:16")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if got, _ := ds.Pending(ctx, "!other:example.com", "@alice:example.com"); got != nil {
		t.Error("dialog leaked into another room")
	}
	if got, _ := ds.Pending(ctx, "!room:example.com", "@bob:example.com"); got != nil {
		t.Error("dialog leaked to another sender")
	}
}

func TestStore_Resolve(t *testing.T) {
	ds := newTestStore(t, time.Hour)
	ctx := context.Background()

	st, err := ds.Begin(ctx, "!room:example.com", "@alice:example.com", cits("John 3:16"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := ds.Resolve(ctx, st.ID, dialog.StatusConfirmed); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if got, _ := ds.Pending(ctx, "!room:example.com", "@alice:example.com"); got != nil {
		t.Error("resolved dialog still pending")
	}

	// Resolving twice fails: the row is no longer pending.
	if err := ds.Resolve(ctx, st.ID, dialog.StatusDeclined); err == nil {
		t.Error("expected error resolving a non-pending dialog")
	}
}

func TestStore_BeginSupersedes(t *testing.T) {
	ds := newTestStore(t, time.Hour)
	ctx := context.Background()

	first, err := ds.Begin(ctx, "!room:example.com", "@alice:example.com", cits("John 3:16"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	second, err := ds.Begin(ctx, "!room:example.com", "@alice:example.com", cits("Romans 8:1"))
	if err != nil {
		t.Fatalf("Begin second: %v", err)
	}

	got, err := ds.Pending(ctx, "!room:example.com", "@alice:example.com")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Fatalf("expected second dialog pending, got %#v", got)
	}
	if got.ID == first.ID {
		t.Error("first dialog should have been superseded")
	}
}

func TestStore_ExpireStale(t *testing.T) {
	ds := newTestStore(t, -time.Minute) // already expired at creation
	ctx := context.Background()

	if _, err := ds.Begin(ctx, "!room:example.com", "@alice:example.com", cits("John 3:16")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// An expired dialog never surfaces as pending even before the sweep.
	if got, _ := ds.Pending(ctx, "!room:example.com", "@alice:example.com"); got != nil {
		t.Error("expired dialog surfaced as pending")
	}

	n, err := ds.ExpireStale(ctx)
	if err != nil {
		t.Fatalf("ExpireStale: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired, got %d", n)
	}

	// Sweep is idempotent.
	n, err = ds.ExpireStale(ctx)
	if err != nil {
		t.Fatalf("ExpireStale second: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 on second sweep, got %d", n)
	}
}

func TestState_Plural(t *testing.T) {
	one := &dialog.State{Citations: cits("John 3:16")}
	if one.Plural() {
		t.Error("single citation should not be plural")
	}
	two := &dialog.State{Citations: cits("John 3:16 and Romans 8:1")}
	if !two.Plural() {
		t.Error("two citations should be plural")
	}
}
