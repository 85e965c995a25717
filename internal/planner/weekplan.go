package planner

import (
	"errors"

	"plateplanner/internal/recipe"
)

// Days lists the days of the week in calendar order. Every traversal of a
// WeekPlan iterates this slice so derived output is deterministic.
var Days = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

var (
	// ErrInvalidDay is returned when a day label outside Days is used.
	ErrInvalidDay = errors.New("invalid day of week")
	// ErrInvalidIndex is returned when a meal index is out of range for its day.
	ErrInvalidIndex = errors.New("meal index out of range")
	// ErrInsufficientCatalog is returned by AutoGenerate when the catalog
	// holds fewer than seven distinct recipes.
	ErrInsufficientCatalog = errors.New("catalog needs at least 7 recipes")
)

// WeekPlan maps a day of the week to the recipes assigned to it. A day may
// hold any number of meals, including none.
type WeekPlan map[string][]recipe.Recipe

// NewWeekPlan returns an empty plan with every day present.
func NewWeekPlan() WeekPlan {
	w := make(WeekPlan, len(Days))
	for _, day := range Days {
		w[day] = []recipe.Recipe{}
	}
	return w
}

// ValidDay reports whether day is one of the seven fixed labels.
func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Normalize ensures every day key exists and drops keys outside the seven
// fixed labels. Stored plans from older clients sometimes miss days.
func (w WeekPlan) Normalize() WeekPlan {
	fixed := NewWeekPlan()
	for _, day := range Days {
		if meals, ok := w[day]; ok && meals != nil {
			fixed[day] = meals
		}
	}
	return fixed
}

// Clone returns a deep-enough copy: day slices are copied, recipes are
// shared (they are immutable).
func (w WeekPlan) Clone() WeekPlan {
	c := make(WeekPlan, len(Days))
	for _, day := range Days {
		meals := make([]recipe.Recipe, len(w[day]))
		copy(meals, w[day])
		c[day] = meals
	}
	return c
}

// Empty reports whether no recipe is assigned to any day.
func (w WeekPlan) Empty() bool {
	for _, day := range Days {
		if len(w[day]) > 0 {
			return false
		}
	}
	return true
}
