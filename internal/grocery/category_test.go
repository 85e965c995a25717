package grocery

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"milk", CategoryDairy},
		{"paneer", CategoryDairy},
		{"amul butter", CategoryDairy},
		{"tomato", CategoryVegetables},
		{"red onion", CategoryVegetables},
		{"green beans", CategoryVegetables},
		{"garam masala", CategorySpices},
		{"jeera", CategorySpices},
		{"turmeric powder", CategorySpices},
		{"rice", CategoryOthers},
		{"", CategoryOthers},
	}

	for _, tc := range cases {
		if got := Classify(tc.name); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClassifyTieBreak(t *testing.T) {
	// Matches both the Dairy and Vegetables keyword lists; Dairy is
	// checked first and must win.
	if got := Classify("tomato paneer"); got != CategoryDairy {
		t.Errorf("Classify(\"tomato paneer\") = %v, want %v", got, CategoryDairy)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Milk", "milk"},
		{"  Paneer  ", "paneer"},
		{"GARAM Masala", "garam masala"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
