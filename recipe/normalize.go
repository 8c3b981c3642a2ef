package recipe

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Time-string normalization for the stats strip: parenthetical annotations
// dropped, dash variants unified, "hours"/"hrs" → "hr" and "minutes"/"mins" →
// "min", whitespace collapsed. Ranges survive: "2.5–3 hours" → "2.5-3 hr".
var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	hourRe          = regexp.MustCompile(`(?i)\b(?:hours?|hrs?)\b`)
	minuteRe        = regexp.MustCompile(`(?i)\b(?:minutes?|mins?)\b`)
	rangeDashRe     = regexp.MustCompile(`\s*-\s*`)
	dashReplacer    = strings.NewReplacer("–", "-", "—", "-", "‒", "-", "―", "-")
)

// NormalizeTime rewrites a free-form duration string into the compact form
// shown on the card. Empty input stays empty.
func NormalizeTime(s string) string {
	s = parentheticalRe.ReplaceAllString(s, " ")
	s = dashReplacer.Replace(s)
	s = hourRe.ReplaceAllString(s, "hr")
	s = minuteRe.ReplaceAllString(s, "min")
	s = rangeDashRe.ReplaceAllString(s, "-")
	return collapse(s)
}

// pieceNouns are ingredient names that usually arrive one per serving, used
// by the first servings-inference pass.
var pieceNouns = []string{
	"egg", "thigh", "fillet", "filet", "drumstick", "breast", "cutlet",
	"chop", "sausage", "patty", "bun", "tortilla", "wing", "leg", "steak",
}

func containsPieceNoun(name string) bool {
	lower := strings.ToLower(name)
	for _, noun := range pieceNouns {
		idx := strings.Index(lower, noun)
		for idx >= 0 {
			before := idx == 0 || !isLetter(lower[idx-1])
			afterIdx := idx + len(noun)
			// allow a plural "s" after the noun
			if afterIdx < len(lower) && lower[afterIdx] == 's' {
				afterIdx++
			}
			after := afterIdx >= len(lower) || !isLetter(lower[afterIdx])
			if before && after {
				return true
			}
			next := strings.Index(lower[idx+1:], noun)
			if next < 0 {
				break
			}
			idx += 1 + next
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// servingsPlaceholders are values extraction emits when it could not read a
// serving count; they count as absent.
var servingsPlaceholders = map[string]struct{}{
	"": {}, "null": {}, "none": {}, "unknown": {}, "n/a": {}, "?": {}, "-": {}, "—": {},
}

// HasServings reports whether the record carries a usable servings value.
func HasServings(doc Document) bool {
	_, placeholder := servingsPlaceholders[strings.ToLower(strings.TrimSpace(doc.Servings))]
	return !placeholder
}

const gramsPerServing = 200

// InferServings estimates a serving count from the ingredient list. Two
// passes: (a) the largest integer quantity in [2,12] attached to a piece-like
// ingredient; (b) total weight in grams divided by 200 g per serving, clamped
// to [1,12]. No usable signal returns "". The result is a best-effort guess,
// not a promise.
func InferServings(ingredients []Ingredient) string {
	best := 0
	for _, ing := range ingredients {
		if !containsPieceNoun(ing.Name) {
			continue
		}
		v, ok := QuantityValue(ing.Quantity)
		if !ok || v != math.Trunc(v) {
			continue
		}
		n := int(v)
		if n >= 2 && n <= 12 && n > best {
			best = n
		}
	}
	if best > 0 {
		return strconv.Itoa(best)
	}

	totalGrams := 0.0
	for _, ing := range ingredients {
		factor := weightFactor(ing.Unit)
		if factor == 0 {
			continue
		}
		if v, ok := QuantityValue(ing.Quantity); ok {
			totalGrams += v * factor
		}
	}
	if totalGrams > 0 {
		n := int(math.Round(totalGrams / gramsPerServing))
		if n < 1 {
			n = 1
		}
		if n > 12 {
			n = 12
		}
		return strconv.Itoa(n)
	}
	return ""
}

// weightFactor returns how many grams one quantity unit of the given unit
// string weighs, or 0 for non-weight units.
func weightFactor(unit string) float64 {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), ".") {
	case "g", "gram", "grams":
		return 1
	case "kg", "kilogram", "kilograms":
		return 1000
	default:
		return 0
	}
}

// EffectiveServings resolves the servings shown on the card: the explicit
// value when usable, otherwise the inference result, otherwise empty.
func EffectiveServings(doc Document) string {
	if HasServings(doc) {
		return strings.TrimSpace(doc.Servings)
	}
	return InferServings(doc.Ingredients)
}
