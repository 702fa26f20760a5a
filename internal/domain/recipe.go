package domain

// IngredientKind is the graph label of something a user can own.
type IngredientKind string

const (
	KindIngredient IngredientKind = "ingredient"
	KindSauce      IngredientKind = "sauce"
)

// Label returns the node label used in the graph for the kind.
func (k IngredientKind) Label() (string, bool) {
	switch k {
	case KindIngredient:
		return "Ingredient", true
	case KindSauce:
		return "Sauce", true
	default:
		return "", false
	}
}

// RecipeRequirement is one recipe together with the names of everything it needs.
// It is read from the (ingredient)-->(recipe)-[:RECIPE_OF]->(food) edges.
type RecipeRequirement struct {
	Food     string
	Recipe   string
	Required []string
}

// RecipeMatch is a recipe scored against the caller's ingredients.
// Similarity is the Jaccard index of the two name sets, in [0,1].
type RecipeMatch struct {
	Food       string  `json:"food"`
	Recipe     string  `json:"recipe"`
	Similarity float64 `json:"similarity"`
}

// PartialRecipe reports which required ingredients the caller has and which are missing.
type PartialRecipe struct {
	Food     string   `json:"food"`
	Recipe   string   `json:"recipe"`
	Included []string `json:"included"`
	Missing  []string `json:"missing"`
}

// AvailableRecipeRequest is the body of the recipe search endpoints
type AvailableRecipeRequest struct {
	Ingredients []string `json:"ingredients" binding:"dive,notblank"`
	Sauces      []string `json:"sauces" binding:"dive,notblank"`
}

// AutocompleteQuery selects names of one kind that start with Prefix
type AutocompleteQuery struct {
	Kind   IngredientKind `form:"type" binding:"required,oneof=ingredient sauce"`
	Prefix string         `form:"data"`
	Limit  int            `form:"limit" binding:"omitempty,min=1,max=100"`
}
