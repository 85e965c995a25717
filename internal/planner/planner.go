package planner

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"plateplanner/internal/recipe"
)

// PlanStore persists one week plan per user. LoadPlan returns nil, nil
// when the user has no stored plan; an error always means the store
// itself failed.
type PlanStore interface {
	LoadPlan(ctx context.Context, userID string) (WeekPlan, error)
	SavePlan(ctx context.Context, userID string, week WeekPlan) error
}

// Planner owns a single user's week plan between load and save. It is not
// safe for concurrent use; the caller serializes mutations against an
// in-flight Save.
type Planner struct {
	store    PlanStore
	userID   string
	week     WeekPlan
	loaded   bool
	dirty    bool
	rng      *rand.Rand
	onChange []func(WeekPlan)
}

// Option configures a Planner.
type Option func(*Planner)

// WithRand sets the randomness source used by AutoGenerate. Tests inject
// a seeded source for reproducible shuffles.
func WithRand(src rand.Source) Option {
	return func(p *Planner) {
		p.rng = rand.New(src)
	}
}

// New creates a Planner for the given user. Identity is explicit here;
// there is no ambient session state.
func New(store PlanStore, userID string, opts ...Option) *Planner {
	p := &Planner{
		store:  store,
		userID: userID,
		week:   NewWeekPlan(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers a callback invoked after every plan mutation.
func (p *Planner) Subscribe(fn func(WeekPlan)) {
	p.onChange = append(p.onChange, fn)
}

func (p *Planner) notify() {
	for _, fn := range p.onChange {
		fn(p.week)
	}
}

// Load fetches the user's stored plan. A missing plan is not an error:
// the planner starts from an empty week. A store failure leaves the
// in-memory plan untouched and is returned for the caller to retry.
func (p *Planner) Load(ctx context.Context) error {
	stored, err := p.store.LoadPlan(ctx, p.userID)
	if err != nil {
		return fmt.Errorf("failed to load plan for user %s: %w", p.userID, err)
	}
	if stored == nil {
		p.week = NewWeekPlan()
	} else {
		p.week = stored.Normalize()
	}
	p.loaded = true
	p.dirty = false
	return nil
}

// Week returns the current in-memory plan.
func (p *Planner) Week() WeekPlan {
	return p.week
}

// Loaded reports whether Load has completed. Callers use this to tell an
// empty plan apart from one that was never fetched.
func (p *Planner) Loaded() bool {
	return p.loaded
}

// Dirty reports whether the plan has been mutated since the last Load or Save.
func (p *Planner) Dirty() bool {
	return p.dirty
}

// Assign appends a recipe to the given day. Unknown day labels are
// rejected with ErrInvalidDay and the plan is left unchanged.
func (p *Planner) Assign(day string, rec recipe.Recipe) error {
	if !ValidDay(day) {
		return ErrInvalidDay
	}
	p.week[day] = append(p.week[day], rec)
	p.dirty = true
	p.notify()
	return nil
}

// Remove deletes the meal at the given position of a day. Out-of-range
// indexes are a no-op reported as ErrInvalidIndex.
func (p *Planner) Remove(day string, index int) error {
	if !ValidDay(day) {
		return ErrInvalidDay
	}
	meals := p.week[day]
	if index < 0 || index >= len(meals) {
		return ErrInvalidIndex
	}
	p.week[day] = append(meals[:index], meals[index+1:]...)
	p.dirty = true
	p.notify()
	return nil
}

// ReplaceWeek swaps in a whole new plan, typically one posted by a
// client. Day labels outside the fixed seven are rejected.
func (p *Planner) ReplaceWeek(week WeekPlan) error {
	for day := range week {
		if !ValidDay(day) {
			return ErrInvalidDay
		}
	}
	p.week = week.Normalize()
	p.dirty = true
	p.notify()
	return nil
}

// AutoGenerate replaces the whole week with one recipe per day drawn from
// a uniform Fisher-Yates shuffle of the catalog, so no recipe repeats.
// Duplicate catalog entries count once; with fewer than seven distinct
// recipes it fails with ErrInsufficientCatalog and the prior plan is
// left unchanged.
func (p *Planner) AutoGenerate(catalog []recipe.Recipe) error {
	seen := make(map[string]bool, len(catalog))
	shuffled := make([]recipe.Recipe, 0, len(catalog))
	for _, rec := range catalog {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		shuffled = append(shuffled, rec)
	}
	if len(shuffled) < len(Days) {
		return ErrInsufficientCatalog
	}
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	week := NewWeekPlan()
	for i, day := range Days {
		week[day] = []recipe.Recipe{shuffled[i]}
	}
	p.week = week
	p.dirty = true
	p.notify()
	return nil
}

// Save persists the in-memory plan verbatim. Last write wins; there is no
// optimistic concurrency token. On failure the in-memory plan is kept and
// the error is surfaced for retry.
func (p *Planner) Save(ctx context.Context) error {
	if err := p.store.SavePlan(ctx, p.userID, p.week); err != nil {
		return fmt.Errorf("failed to save plan for user %s: %w", p.userID, err)
	}
	p.dirty = false
	return nil
}
