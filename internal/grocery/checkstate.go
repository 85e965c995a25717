package grocery

import (
	"context"
	"fmt"
)

// CheckState maps a grocery merge key to its checked flag.
type CheckState map[string]bool

// Store persists per-user check state as an opaque record. LoadChecks
// returns an empty state when the user has none; an error always means
// the store itself failed.
type Store interface {
	LoadChecks(ctx context.Context, userID string) (CheckState, error)
	SaveChecks(ctx context.Context, userID string, state CheckState) error
}

// Reconciler keeps a user's check state stable across list
// regenerations. Entries whose key is absent from the current list stay
// in the state untouched; only ClearAll removes them.
type Reconciler struct {
	store  Store
	userID string
	state  CheckState
}

// NewReconciler creates a Reconciler for the given user.
func NewReconciler(store Store, userID string) *Reconciler {
	return &Reconciler{
		store:  store,
		userID: userID,
		state:  CheckState{},
	}
}

// Load fetches the persisted check state. A store failure leaves the
// current in-memory state intact.
func (r *Reconciler) Load(ctx context.Context) error {
	state, err := r.store.LoadChecks(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("failed to load check state for user %s: %w", r.userID, err)
	}
	if state == nil {
		state = CheckState{}
	}
	r.state = state
	return nil
}

// State returns the current in-memory check state.
func (r *Reconciler) State() CheckState {
	return r.state
}

// Toggle flips the checked flag for a merge key and writes the whole
// state through immediately. A failed write does not undo the in-memory
// flip; the error is returned as a recoverable warning.
func (r *Reconciler) Toggle(ctx context.Context, key string) error {
	r.state[key] = !r.state[key]
	if err := r.store.SaveChecks(ctx, r.userID, r.state); err != nil {
		return fmt.Errorf("check state not persisted for user %s: %w", r.userID, err)
	}
	return nil
}

// ClearAll empties the state, including entries for items no longer on
// the list, and writes through. The in-memory state stays empty even if
// the write fails.
func (r *Reconciler) ClearAll(ctx context.Context) error {
	r.state = CheckState{}
	if err := r.store.SaveChecks(ctx, r.userID, r.state); err != nil {
		return fmt.Errorf("check state not persisted for user %s: %w", r.userID, err)
	}
	return nil
}

// ApplyTo annotates aggregated items with their checked flag by merge-key
// lookup, defaulting to unchecked for keys the state has never seen.
func (r *Reconciler) ApplyTo(items []Item) []Item {
	for i := range items {
		items[i].Checked = r.state[items[i].Name]
	}
	return items
}
