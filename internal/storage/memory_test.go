package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"noirbudget/internal/core"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	l := testLedger(t)
	if err := store.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(l, got); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}

	// The snapshot is isolated from later mutations of the loaded copy.
	if err := got.RemoveCard("Visa"); err != nil {
		t.Fatalf("RemoveCard: %v", err)
	}
	again, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(again.Cards) != 1 {
		t.Errorf("snapshot mutated through a loaded copy: %d cards", len(again.Cards))
	}
}

func TestMemoryStoreFirstRun(t *testing.T) {
	l, err := NewMemoryStore().Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(core.DefaultCategories, l.Categories); diff != "" {
		t.Errorf("first-run categories (-want +got):\n%s", diff)
	}
}
