package grocery

import (
	"reflect"
	"testing"

	"plateplanner/internal/planner"
	"plateplanner/internal/recipe"
)

func testWeek() planner.WeekPlan {
	week := planner.NewWeekPlan()
	week["monday"] = []recipe.Recipe{{
		ID:    "a",
		Title: "Paneer Bhurji",
		Ingredients: []recipe.Ingredient{
			{Name: "Milk", Quantity: "1 cup"},
			{Name: "Paneer", Quantity: "200g"},
		},
	}}
	week["tuesday"] = []recipe.Recipe{{
		ID:    "b",
		Title: "Milk Shake",
		Ingredients: []recipe.Ingredient{
			{Name: "Milk", Quantity: "2 cups"},
		},
	}}
	return week
}

func TestAggregate(t *testing.T) {
	t.Run("MergesAcrossDays", func(t *testing.T) {
		items := Aggregate(testWeek())

		want := []Item{
			{Name: "milk", Category: CategoryDairy, Quantities: []string{"1 cup", "2 cups"}},
			{Name: "paneer", Category: CategoryDairy, Quantities: []string{"200g"}},
		}
		if !reflect.DeepEqual(items, want) {
			t.Errorf("Aggregate() = %+v, want %+v", items, want)
		}
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		items := Aggregate(planner.NewWeekPlan())
		if items == nil {
			t.Fatal("Expected a non-nil empty slice for an empty plan")
		}
		if len(items) != 0 {
			t.Errorf("Expected 0 items, got %d", len(items))
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		week := testWeek()
		first := Aggregate(week)
		second := Aggregate(week)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Two aggregations of the same week differ: %+v vs %+v", first, second)
		}
	})

	t.Run("QuantityPerOccurrence", func(t *testing.T) {
		week := planner.NewWeekPlan()
		rec := recipe.Recipe{ID: "c", Title: "Salad", Ingredients: []recipe.Ingredient{
			{Name: "Tomato", Quantity: "2"},
		}}
		// Same recipe three times across the week: three occurrences,
		// one item, three quantity entries.
		week["monday"] = []recipe.Recipe{rec}
		week["wednesday"] = []recipe.Recipe{rec}
		week["sunday"] = []recipe.Recipe{rec}

		items := Aggregate(week)
		if len(items) != 1 {
			t.Fatalf("Expected 1 item, got %d", len(items))
		}
		if len(items[0].Quantities) != 3 {
			t.Errorf("Expected 3 quantity entries, got %d", len(items[0].Quantities))
		}
	})

	t.Run("CaseInsensitiveMerge", func(t *testing.T) {
		week := planner.NewWeekPlan()
		week["monday"] = []recipe.Recipe{{ID: "a", Ingredients: []recipe.Ingredient{
			{Name: "MILK", Quantity: "1 cup"},
			{Name: " milk ", Quantity: "2 cups"},
		}}}

		items := Aggregate(week)
		if len(items) != 1 {
			t.Fatalf("Expected 1 merged item, got %d", len(items))
		}
		if items[0].Name != "milk" {
			t.Errorf("Expected merge key 'milk', got %q", items[0].Name)
		}
	})

	t.Run("EmptyNameIsAValidKey", func(t *testing.T) {
		week := planner.NewWeekPlan()
		week["friday"] = []recipe.Recipe{{ID: "a", Ingredients: []recipe.Ingredient{
			{Name: "   ", Quantity: "1 pinch"},
		}}}

		items := Aggregate(week)
		if len(items) != 1 {
			t.Fatalf("Expected the degenerate key to produce 1 item, got %d", len(items))
		}
		if items[0].Name != "" {
			t.Errorf("Expected empty merge key, got %q", items[0].Name)
		}
	})
}

func TestGroupByCategory(t *testing.T) {
	week := testWeek()
	week["wednesday"] = []recipe.Recipe{{
		ID:    "c",
		Title: "Aloo Jeera",
		Ingredients: []recipe.Ingredient{
			{Name: "Potato", Quantity: "3"},
			{Name: "Jeera", Quantity: "1 tsp"},
			{Name: "Rice", Quantity: "1 cup"},
		},
	}}

	groups := GroupByCategory(Aggregate(week))

	wantOrder := []Category{CategoryDairy, CategoryVegetables, CategorySpices, CategoryOthers}
	if len(groups) != len(wantOrder) {
		t.Fatalf("Expected %d groups, got %d", len(wantOrder), len(groups))
	}
	for i, group := range groups {
		if group.Category != wantOrder[i] {
			t.Errorf("Group %d is %v, want %v", i, group.Category, wantOrder[i])
		}
	}

	if len(groups[0].Items) != 2 {
		t.Errorf("Expected 2 dairy items, got %d", len(groups[0].Items))
	}
	if groups[0].Items[0].Name != "milk" || groups[0].Items[1].Name != "paneer" {
		t.Errorf("Dairy items out of first-appearance order: %+v", groups[0].Items)
	}
}
