package main

import (
	"encoding/json"

	"github.com/fetchbites/recipecard/recipe"
)

// recipeFile mirrors recipe.Document on disk, except that each ingredient may
// be either the structured object or a bare free-text line ("2 cups flour");
// free-text lines go through the ingredient grammar.
type recipeFile struct {
	recipe.Document
	Ingredients []ingredientField `json:"ingredients,omitempty"`
}

type ingredientField struct {
	recipe.Ingredient
	raw string
}

func (f *ingredientField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &f.raw)
	}
	return json.Unmarshal(data, &f.Ingredient)
}

func (f recipeFile) toRecipe() recipe.Document {
	doc := f.Document
	doc.Ingredients = make([]recipe.Ingredient, 0, len(f.Ingredients))
	for _, ing := range f.Ingredients {
		if ing.raw != "" {
			doc.Ingredients = append(doc.Ingredients, recipe.ParseIngredient(ing.raw))
			continue
		}
		doc.Ingredients = append(doc.Ingredients, ing.Ingredient)
	}
	return doc
}
