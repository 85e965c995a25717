package grocery

import (
	"plateplanner/internal/planner"
)

// Item is a derived shopping-list entry. It is recomputed from the plan
// on every change and never persisted itself; only the checked flags
// survive via CheckState.
type Item struct {
	Name       string   `json:"name"`     // normalized merge key
	Category   Category `json:"category"`
	Quantities []string `json:"quantities"` // one entry per source occurrence, in week order
	Checked    bool     `json:"checked"`
}

// Aggregate folds a week's assigned recipes into a deduplicated,
// categorized list. Traversal is fixed: days in calendar order, recipes
// in assignment order, ingredients in recipe order. Each occurrence
// contributes its quantity string to its merge key exactly once;
// quantities are opaque text and are never summed. Output order is
// first appearance of each merge key, so identical input always yields
// an identical list. An empty plan yields an empty, non-nil slice.
func Aggregate(week planner.WeekPlan) []Item {
	items := []Item{}
	index := make(map[string]int)

	for _, day := range planner.Days {
		for _, rec := range week[day] {
			for _, ing := range rec.Ingredients {
				key := NormalizeName(ing.Name)
				if pos, ok := index[key]; ok {
					items[pos].Quantities = append(items[pos].Quantities, ing.Quantity)
					continue
				}
				index[key] = len(items)
				items = append(items, Item{
					Name:       key,
					Category:   Classify(key),
					Quantities: []string{ing.Quantity},
				})
			}
		}
	}
	return items
}

// CategoryGroup is one category's slice of an aggregated list.
type CategoryGroup struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// GroupByCategory splits an aggregated list by category. Groups appear in
// the order their category was first seen and items keep their
// first-appearance order within each group.
func GroupByCategory(items []Item) []CategoryGroup {
	groups := []CategoryGroup{}
	index := make(map[Category]int)

	for _, item := range items {
		pos, ok := index[item.Category]
		if !ok {
			pos = len(groups)
			index[item.Category] = pos
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}
