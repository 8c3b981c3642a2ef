package recipe

import "testing"

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"4 hours (including marination)", "4 hr"},
		{"30 minutes", "30 min"},
		{"2.5–3 hours", "2.5-3 hr"},
		{"2-3 hr", "2-3 hr"},
		{"10 Minutes", "10 min"},
		{"1 hour 20 mins", "1 hr 20 min"},
		{"overnight", "overnight"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTime(tc.in); got != tc.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInferServingsPieceNoun(t *testing.T) {
	ings := []Ingredient{
		{Quantity: "4", Unit: "", Name: "egg"},
	}
	if got := InferServings(ings); got != "4" {
		t.Fatalf("piece-noun inference = %q, want %q", got, "4")
	}

	// largest qualifying piece quantity wins
	ings = []Ingredient{
		{Quantity: "2", Name: "chicken thighs"},
		{Quantity: "6", Name: "eggs"},
		{Quantity: "1", Name: "egg"},    // below [2,12]
		{Quantity: "24", Name: "wings"}, // above [2,12]
	}
	if got := InferServings(ings); got != "6" {
		t.Fatalf("largest piece quantity = %q, want %q", got, "6")
	}
}

func TestInferServingsWeight(t *testing.T) {
	ings := []Ingredient{
		{Quantity: "500", Unit: "g", Name: "flat rice noodles"},
		{Quantity: "300", Unit: "g", Name: "beansprouts"},
	}
	if got := InferServings(ings); got != "4" {
		t.Fatalf("weight inference 800g = %q, want %q", got, "4")
	}

	ings = []Ingredient{{Quantity: "1.2", Unit: "kg", Name: "potatoes"}}
	if got := InferServings(ings); got != "6" {
		t.Fatalf("weight inference 1.2kg = %q, want %q", got, "6")
	}
}

func TestInferServingsNoSignal(t *testing.T) {
	ings := []Ingredient{
		{Name: "salt to taste"},
		{Quantity: "2", Unit: "tbsp", Name: "olive oil"},
	}
	if got := InferServings(ings); got != "" {
		t.Fatalf("expected empty inference, got %q", got)
	}
	if got := InferServings(nil); got != "" {
		t.Fatalf("expected empty inference for nil list, got %q", got)
	}
}

func TestEffectiveServings(t *testing.T) {
	doc := Document{Servings: "4"}
	if got := EffectiveServings(doc); got != "4" {
		t.Fatalf("explicit servings = %q, want %q", got, "4")
	}
	doc = Document{
		Servings:    "null",
		Ingredients: []Ingredient{{Quantity: "4", Name: "eggs"}},
	}
	if got := EffectiveServings(doc); got != "4" {
		t.Fatalf("placeholder should fall back to inference, got %q", got)
	}
	if got := EffectiveServings(Document{Servings: "  "}); got != "" {
		t.Fatalf("no signal should stay empty, got %q", got)
	}
}

func TestSanitizeCollapsesWhitespace(t *testing.T) {
	doc := Document{
		Title: "  Beef\tHo  Fun ",
		Ingredients: []Ingredient{
			{Quantity: " 1 ", Unit: " tsp ", Name: "  light\nsoy sauce "},
			{},
		},
		Instructions: []string{"  Cut thin   slices of beef ", ""},
	}
	got := Sanitize(doc)
	if got.Title != "Beef Ho Fun" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Name != "light soy sauce" {
		t.Errorf("ingredients = %#v", got.Ingredients)
	}
	if len(got.Instructions) != 1 || got.Instructions[0] != "Cut thin slices of beef" {
		t.Errorf("instructions = %#v", got.Instructions)
	}
	// input untouched
	if doc.Title != "  Beef\tHo  Fun " {
		t.Error("Sanitize mutated its input")
	}
}
