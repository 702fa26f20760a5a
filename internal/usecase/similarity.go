package usecase

import (
	"sort"

	"github.com/saveplate/backend/internal/domain"
)

// ScoreRecipes computes the Jaccard similarity between the available
// ingredients and each candidate's requirements, highest first.
//
// Candidates sharing nothing with available are left out rather than scored 0.
// The order of recipes with equal similarity is unspecified.
func ScoreRecipes(available []string, candidates []domain.RecipeRequirement) []domain.RecipeMatch {
	matches := make([]domain.RecipeMatch, 0, len(candidates))
	for _, c := range candidates {
		shared, _ := findIntersection(available, c.Required)
		if shared == 0 {
			continue
		}
		union := findUnion(available, c.Required)
		if union == 0 {
			continue
		}
		matches = append(matches, domain.RecipeMatch{
			Food:       c.Food,
			Recipe:     c.Recipe,
			Similarity: float64(shared) / float64(union),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// RankPartialRecipes splits each candidate's requirements into what the caller
// has and what is missing. Recipes with more included ingredients come first;
// among those, fewer missing ingredients come first. Further ties are unordered.
func RankPartialRecipes(available []string, candidates []domain.RecipeRequirement) []domain.PartialRecipe {
	partial := make([]domain.PartialRecipe, 0, len(candidates))
	for _, c := range candidates {
		_, included := findIntersection(available, c.Required)
		if len(included) == 0 {
			continue
		}
		partial = append(partial, domain.PartialRecipe{
			Food:     c.Food,
			Recipe:   c.Recipe,
			Included: included,
			Missing:  findDifference(c.Required, available),
		})
	}

	sort.Slice(partial, func(i, j int) bool {
		a, b := partial[i], partial[j]
		if len(a.Included) != len(b.Included) {
			return len(a.Included) > len(b.Included)
		}
		return len(a.Missing) < len(b.Missing)
	})
	return partial
}

// findIntersection returns the count of names in both lists and those names,
// in the order of names2, without duplicates.
func findIntersection(names1, names2 []string) (int, []string) {
	set := make(map[string]bool, len(names1))
	for _, n := range names1 {
		set[n] = true
	}

	matched := []string{}
	seen := make(map[string]bool)
	for _, n := range names2 {
		if set[n] && !seen[n] {
			matched = append(matched, n)
			seen[n] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of distinct names across both lists
func findUnion(names1, names2 []string) int {
	set := make(map[string]bool, len(names1)+len(names2))
	for _, n := range names1 {
		set[n] = true
	}
	for _, n := range names2 {
		set[n] = true
	}
	return len(set)
}

// findDifference returns the distinct names of names1 absent from names2
func findDifference(names1, names2 []string) []string {
	exclude := make(map[string]bool, len(names2))
	for _, n := range names2 {
		exclude[n] = true
	}

	diff := []string{}
	for _, n := range names1 {
		if !exclude[n] {
			diff = append(diff, n)
			exclude[n] = true
		}
	}
	return diff
}
