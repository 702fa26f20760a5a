package graph

import (
	"context"
	"fmt"

	"github.com/saveplate/backend/internal/domain"
)

// Recipes touching at least one of the given names, each with its full
// requirement list. Requirements are every node with an edge into the recipe.
const recipeCandidatesQuery = `
MATCH (a)-->(r:Recipe)
WHERE a.name IN $ingredients
WITH DISTINCT r
MATCH (i)-->(r)-[:RECIPE_OF]->(f:Food)
RETURN f.name AS food, r.name AS recipe, collect(DISTINCT i.name) AS required`

// RecipeCandidates returns every recipe that shares at least one ingredient
// name with ingredients. An empty list matches nothing.
func RecipeCandidates(ctx context.Context, tx Tx, ingredients []string) ([]domain.RecipeRequirement, error) {
	if len(ingredients) == 0 {
		return nil, nil
	}

	records, err := tx.Collect(ctx, recipeCandidatesQuery, map[string]any{
		"ingredients": ingredients,
	})
	if err != nil {
		return nil, fmt.Errorf("query recipe candidates: %w", err)
	}

	candidates := make([]domain.RecipeRequirement, 0, len(records))
	for _, rec := range records {
		food, err := stringField(rec, "food")
		if err != nil {
			return nil, err
		}
		recipe, err := stringField(rec, "recipe")
		if err != nil {
			return nil, err
		}
		required, err := stringsField(rec, "required")
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, domain.RecipeRequirement{
			Food:     food,
			Recipe:   recipe,
			Required: required,
		})
	}
	return candidates, nil
}
