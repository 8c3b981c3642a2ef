package recipe

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Free-text ingredient lines ("400-500 g flat rice noodles", "1½ cups Arborio
// rice", "Salt and white pepper to taste") are tokenized with a small grammar:
// an optional leading quantity (integer, decimal, ascii or unicode fraction,
// or a range), then the remaining words. Whether the first remaining word is
// a unit is decided against a fixed vocabulary afterwards, so the grammar
// stays independent of the unit list.
var (
	ingredientLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Quantity", Pattern: `\d+(?:[./]\d+)?(?:\s*[-–—]\s*\d+(?:[./]\d+)?)?[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]?|[¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`},
		{Name: "Word", Pattern: `[^\s]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	ingredientParser = participle.MustBuild[ingredientLine](
		participle.Lexer(ingredientLexer),
		participle.Elide("Whitespace"),
	)
)

type ingredientLine struct {
	Quantity string   `parser:"@Quantity?"`
	Words    []string `parser:"@( Quantity | Word )*"`
}

// unitWords is the vocabulary observed in extracted captions. Matching is
// case-insensitive; a trailing "." is ignored ("tbsp." == "tbsp").
var unitWords = map[string]struct{}{
	"cup": {}, "cups": {},
	"tsp": {}, "teaspoon": {}, "teaspoons": {},
	"tbsp": {}, "tablespoon": {}, "tablespoons": {},
	"g": {}, "gram": {}, "grams": {},
	"kg": {}, "kilogram": {}, "kilograms": {},
	"ml": {}, "l": {}, "litre": {}, "liter": {},
	"oz": {}, "ounce": {}, "ounces": {},
	"lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"clove": {}, "cloves": {},
	"bunch": {}, "bunches": {},
	"slice": {}, "slices": {},
	"can": {}, "cans": {},
	"pinch": {}, "dash": {},
	"stick": {}, "sticks": {},
	"piece": {}, "pieces": {},
	"small": {}, "medium": {}, "large": {},
}

func isUnitWord(w string) bool {
	w = strings.TrimSuffix(strings.ToLower(w), ".")
	_, ok := unitWords[w]
	return ok
}

// ParseIngredient splits a free-text ingredient line into {quantity, unit,
// name}. Lines the grammar cannot handle degrade to a name-only ingredient;
// this function never fails.
func ParseIngredient(line string) Ingredient {
	line = collapse(line)
	if line == "" {
		return Ingredient{}
	}
	parsed, err := ingredientParser.ParseString("", line)
	if err != nil {
		return Ingredient{Name: line}
	}
	ing := Ingredient{Quantity: normalizeQuantity(parsed.Quantity)}
	words := parsed.Words
	if ing.Quantity != "" && len(words) > 0 && isUnitWord(words[0]) {
		ing.Unit = words[0]
		words = words[1:]
	}
	ing.Name = strings.Join(words, " ")
	if ing.Name == "" && ing.Unit == "" && ing.Quantity == "" {
		return Ingredient{Name: line}
	}
	return ing
}

func normalizeQuantity(q string) string {
	return collapse(strings.NewReplacer("–", "-", "—", "-").Replace(q))
}

var vulgarFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75,
	'⅓': 1.0 / 3, '⅔': 2.0 / 3,
	'⅕': 0.2, '⅖': 0.4, '⅗': 0.6, '⅘': 0.8,
	'⅙': 1.0 / 6, '⅚': 5.0 / 6,
	'⅛': 0.125, '⅜': 0.375, '⅝': 0.625, '⅞': 0.875,
}

// QuantityValue evaluates a quantity string numerically. Ranges resolve to
// their upper bound ("400-500" → 500), ascii fractions are divided ("1/2" →
// 0.5), a trailing unicode fraction is added ("1½" → 1.5). Returns false when
// nothing numeric is present.
func QuantityValue(q string) (float64, bool) {
	q = normalizeQuantity(q)
	if q == "" {
		return 0, false
	}
	// range: keep the upper bound, a best-effort reading for estimation
	if i := strings.LastIndex(q, "-"); i > 0 {
		q = strings.TrimSpace(q[i+1:])
	}
	var frac float64
	if runes := []rune(q); len(runes) > 0 {
		if v, ok := vulgarFractions[runes[len(runes)-1]]; ok {
			frac = v
			q = strings.TrimSpace(string(runes[:len(runes)-1]))
			if q == "" {
				return frac, true
			}
		}
	}
	if num, den, ok := strings.Cut(q, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 == nil && err2 == nil && d != 0 {
			return n/d + frac, true
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(q, 64)
	if err != nil {
		return 0, false
	}
	return v + frac, true
}
