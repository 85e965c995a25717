package recipe

// Ingredient is a single entry of a recipe's ingredient list. Quantity is
// free text ("1 cup", "200g") and carries no numeric meaning.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Recipe is a catalog entry. It is immutable once stored; consumers
// receive copies and never mutate ingredients independently.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Image       string       `json:"image,omitempty"`
	CookTime    int          `json:"cookTime"` // minutes
	Calories    int          `json:"calories"`
	Tags        []string     `json:"tags,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
}
