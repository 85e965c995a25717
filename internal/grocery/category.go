package grocery

import "strings"

// Category labels a grocery item for shopping-list grouping.
type Category string

const (
	CategoryDairy      Category = "Dairy"
	CategoryVegetables Category = "Vegetables"
	CategorySpices     Category = "Spices"
	CategoryOthers     Category = "Others"
)

// categoryRules is checked in order and the first match wins, so an
// ingredient like "tomato paneer" lands in Dairy, not Vegetables.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryDairy, []string{"paneer", "milk", "curd", "cheese", "butter"}},
	{CategoryVegetables, []string{"tomato", "onion", "potato", "carrot", "beans"}},
	{CategorySpices, []string{"masala", "spice", "jeera", "turmeric", "mirchi"}},
}

// Classify maps a normalized ingredient name to its category by substring
// containment against the keyword table. Unmatched names fall through to
// Others.
func Classify(normalizedName string) Category {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalizedName, kw) {
				return rule.category
			}
		}
	}
	return CategoryOthers
}
