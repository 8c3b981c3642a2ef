package recipe

import (
	"math"
	"testing"
)

func TestParseIngredient(t *testing.T) {
	cases := []struct {
		line string
		want Ingredient
	}{
		{"2 cups flour", Ingredient{Quantity: "2", Unit: "cups", Name: "flour"}},
		{"400-500 g skirt/flank beef steak, trimmed", Ingredient{Quantity: "400-500", Unit: "g", Name: "skirt/flank beef steak, trimmed"}},
		{"1½ cups Arborio rice", Ingredient{Quantity: "1½", Unit: "cups", Name: "Arborio rice"}},
		{"½ cup dry white wine", Ingredient{Quantity: "½", Unit: "cup", Name: "dry white wine"}},
		{"3 cloves garlic, minced", Ingredient{Quantity: "3", Unit: "cloves", Name: "garlic, minced"}},
		{"1 large shallot, finely diced", Ingredient{Quantity: "1", Unit: "large", Name: "shallot, finely diced"}},
		{"Salt and white pepper to taste", Ingredient{Name: "Salt and white pepper to taste"}},
		{"1 lemon juice", Ingredient{Quantity: "1", Name: "lemon juice"}},
		{"", Ingredient{}},
	}
	for _, tc := range cases {
		got := ParseIngredient(tc.line)
		if got != tc.want {
			t.Errorf("ParseIngredient(%q) = %#v, want %#v", tc.line, got, tc.want)
		}
	}
}

func TestQuantityValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"4", 4, true},
		{"2.5", 2.5, true},
		{"400-500", 500, true},
		{"1/2", 0.5, true},
		{"½", 0.5, true},
		{"1½", 1.5, true},
		{"", 0, false},
		{"some", 0, false},
	}
	for _, tc := range cases {
		got, ok := QuantityValue(tc.in)
		if ok != tc.ok || math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("QuantityValue(%q) = (%g, %v), want (%g, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
