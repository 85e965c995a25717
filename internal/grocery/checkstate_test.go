package grocery

import (
	"context"
	"errors"
	"testing"
)

// memoryStore is an in-memory Store for tests. failSaves makes every
// SaveChecks call fail to exercise the write-through failure path.
type memoryStore struct {
	states    map[string]CheckState
	failSaves bool
	saves     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[string]CheckState)}
}

func (m *memoryStore) LoadChecks(ctx context.Context, userID string) (CheckState, error) {
	stored, ok := m.states[userID]
	if !ok {
		return CheckState{}, nil
	}
	state := make(CheckState, len(stored))
	for k, v := range stored {
		state[k] = v
	}
	return state, nil
}

func (m *memoryStore) SaveChecks(ctx context.Context, userID string, state CheckState) error {
	if m.failSaves {
		return errors.New("store unreachable")
	}
	saved := make(CheckState, len(state))
	for k, v := range state {
		saved[k] = v
	}
	m.states[userID] = saved
	m.saves++
	return nil
}

func TestReconcilerToggle(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	rec := NewReconciler(store, "user-1")
	if err := rec.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	items := []Item{{Name: "milk"}, {Name: "paneer"}}

	// Toggle on: the flag must survive a re-derivation of the list.
	if err := rec.Toggle(ctx, "milk"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	applied := rec.ApplyTo(Aggregate(testWeek()))
	if !applied[0].Checked {
		t.Error("Expected milk to be checked after toggle")
	}
	if applied[1].Checked {
		t.Error("Expected paneer to stay unchecked")
	}

	// Toggle off.
	if err := rec.Toggle(ctx, "milk"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	applied = rec.ApplyTo(items)
	if applied[0].Checked {
		t.Error("Expected milk to be unchecked after second toggle")
	}

	if store.saves != 2 {
		t.Errorf("Expected 2 write-through saves, got %d", store.saves)
	}
}

func TestReconcilerPersistenceSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	first := NewReconciler(store, "user-1")
	if err := first.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := first.Toggle(ctx, "milk"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	// A fresh reconciler (new page view) sees the persisted flag.
	second := NewReconciler(store, "user-1")
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !second.State()["milk"] {
		t.Error("Expected persisted check state to survive a reload")
	}
}

func TestReconcilerFailedWriteKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.failSaves = true

	rec := NewReconciler(store, "user-1")
	if err := rec.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err := rec.Toggle(ctx, "milk")
	if err == nil {
		t.Fatal("Expected an error from the failing store, got nil")
	}
	// Optimistic local state: the flip sticks even though the write failed.
	if !rec.State()["milk"] {
		t.Error("Expected in-memory toggle to survive a failed persistence write")
	}
}

func TestReconcilerInertEntriesRetained(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.states["user-1"] = CheckState{"ghee": true}

	rec := NewReconciler(store, "user-1")
	if err := rec.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// "ghee" is not on the current derived list; applying must not drop it.
	rec.ApplyTo([]Item{{Name: "milk"}})
	if err := rec.Toggle(ctx, "milk"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !store.states["user-1"]["ghee"] {
		t.Error("Expected inert entry to be retained across a write-through")
	}
}

func TestReconcilerClearAll(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.states["user-1"] = CheckState{"milk": true, "ghee": true}

	rec := NewReconciler(store, "user-1")
	if err := rec.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := rec.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	applied := rec.ApplyTo([]Item{{Name: "milk"}, {Name: "paneer"}})
	for _, item := range applied {
		if item.Checked {
			t.Errorf("Expected %q to be unchecked after ClearAll", item.Name)
		}
	}
	if len(store.states["user-1"]) != 0 {
		t.Errorf("Expected persisted state to be empty, got %v", store.states["user-1"])
	}
}

func TestReconcilerDefaultsUnseenKeysToFalse(t *testing.T) {
	rec := NewReconciler(newMemoryStore(), "user-1")
	applied := rec.ApplyTo([]Item{{Name: "never-seen"}})
	if applied[0].Checked {
		t.Error("Expected unseen key to default to unchecked")
	}
}
