// Package recipe defines the structured recipe record handed to the layout
// engine, together with the best-effort normalizers applied to its fields.
//
// Every field is optional: extraction upstream routinely delivers partial
// records, and a missing field must only ever degrade the rendered card,
// never fail it.
package recipe

import (
	"regexp"
	"strings"
)

// Source describes where a recipe post came from.
type Source struct {
	Platform string `json:"platform,omitempty"`
	URL      string `json:"url,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Handle   string `json:"handle,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Ingredient is one entry of the ingredient list. Extraction may deliver the
// structured triple or a single free-text line; ParseIngredient converts the
// latter into the former.
type Ingredient struct {
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Display renders the ingredient as a single human-readable line.
func (i Ingredient) Display() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{i.Quantity, i.Unit, i.Name} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// Document is the structured recipe record produced by extraction.
type Document struct {
	Title        string       `json:"title,omitempty"`
	Description  string       `json:"description,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
	Instructions []string     `json:"instructions,omitempty"`
	PrepTime     string       `json:"prep_time,omitempty"`
	CookTime     string       `json:"cook_time,omitempty"`
	TotalTime    string       `json:"total_time,omitempty"`
	Servings     string       `json:"servings,omitempty"`
	Likes        string       `json:"likes,omitempty"`
	Views        string       `json:"views,omitempty"`
	DietaryInfo  []string     `json:"dietary_info,omitempty"`
	Difficulty   string       `json:"difficulty,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	NotesCompact string       `json:"notes_compact,omitempty"`
	Source       Source       `json:"source,omitempty"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Sanitize trims and collapses whitespace on the fields that flow into text
// boxes. It returns a copy; the input record is never mutated.
func Sanitize(doc Document) Document {
	out := doc
	out.Title = collapse(doc.Title)
	out.Description = collapse(doc.Description)
	out.Notes = collapse(doc.Notes)
	out.NotesCompact = collapse(doc.NotesCompact)
	out.Difficulty = collapse(doc.Difficulty)

	if len(doc.Ingredients) > 0 {
		out.Ingredients = make([]Ingredient, 0, len(doc.Ingredients))
		for _, ing := range doc.Ingredients {
			ing.Quantity = collapse(ing.Quantity)
			ing.Unit = collapse(ing.Unit)
			ing.Name = collapse(ing.Name)
			if ing.Quantity == "" && ing.Unit == "" && ing.Name == "" {
				continue
			}
			out.Ingredients = append(out.Ingredients, ing)
		}
	}
	if len(doc.Instructions) > 0 {
		out.Instructions = make([]string, 0, len(doc.Instructions))
		for _, step := range doc.Instructions {
			if s := collapse(step); s != "" {
				out.Instructions = append(out.Instructions, s)
			}
		}
	}
	return out
}
