package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/graph"
	"github.com/saveplate/backend/internal/infrastructure/graph/graphtest"
)

func recipeRows() []*graph.Record {
	return []*graph.Record{
		graphtest.Row("food", "Salad", "recipe", "R1", "required", graphtest.List("tomato", "onion", "garlic")),
		graphtest.Row("food", "Soup", "recipe", "R2", "required", graphtest.List("tomato")),
	}
}

func TestRecipeService_AvailableRecipes(t *testing.T) {
	provider := graphtest.NewProvider().OnRows("RECIPE_OF", recipeRows()...)
	now := time.Unix(1_000_000, 0)
	svc, err := NewRecipeService(provider, RecipeServiceConfig{CacheTTL: time.Minute, Now: func() time.Time { return now }})
	require.NoError(t, err)
	ctx := context.Background()

	got, err := svc.AvailableRecipes(ctx, domain.AvailableRecipeRequest{Ingredients: []string{"tomato", "onion"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "R1", got[0].Recipe)
	assert.InDelta(t, 2.0/3.0, got[0].Similarity, 1e-9)
	assert.Equal(t, "R2", got[1].Recipe)
	assert.InDelta(t, 0.5, got[1].Similarity, 1e-9)

	t.Run("same set in another order is served from cache", func(t *testing.T) {
		again, err := svc.AvailableRecipes(ctx, domain.AvailableRecipeRequest{Ingredients: []string{"onion"}, Sauces: []string{"tomato", ""}})
		require.NoError(t, err)
		assert.Equal(t, got, again)
		assert.Len(t, provider.Sessions(), 1)
	})

	t.Run("next window queries again", func(t *testing.T) {
		now = now.Add(time.Minute)
		_, err := svc.AvailableRecipes(ctx, domain.AvailableRecipeRequest{Ingredients: []string{"tomato", "onion"}})
		require.NoError(t, err)
		assert.Len(t, provider.Sessions(), 2)
	})

	t.Run("sessions are read only and closed", func(t *testing.T) {
		for _, s := range provider.Sessions() {
			assert.Equal(t, graph.Read, s.Mode())
			assert.Equal(t, 1, s.Closes())
		}
	})
}

func TestRecipeService_EmptyRequest(t *testing.T) {
	provider := graphtest.NewProvider()
	svc, err := NewRecipeService(provider, RecipeServiceConfig{})
	require.NoError(t, err)

	got, err := svc.AvailableRecipes(context.Background(), domain.AvailableRecipeRequest{Ingredients: []string{" "}})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	partial, err := svc.PartialRecipes(context.Background(), domain.AvailableRecipeRequest{})
	require.NoError(t, err)
	assert.Empty(t, partial)

	assert.Empty(t, provider.Sessions())
}

func TestRecipeService_ErrorsAreNotCached(t *testing.T) {
	fail := true
	provider := graphtest.NewProvider().On("RECIPE_OF", func(q graphtest.Query) ([]*graph.Record, error) {
		if fail {
			return nil, errStoreDown
		}
		return recipeRows(), nil
	})
	svc, err := NewRecipeService(provider, RecipeServiceConfig{})
	require.NoError(t, err)
	req := domain.AvailableRecipeRequest{Ingredients: []string{"tomato"}}

	_, err = svc.AvailableRecipes(context.Background(), req)
	assert.True(t, errors.Is(err, errStoreDown))

	fail = false
	got, err := svc.AvailableRecipes(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, provider.Sessions(), 2)
}

func TestRecipeService_AvailableRecipesForUser(t *testing.T) {
	provider := graphtest.NewProvider().
		OnRows("AS names", graphtest.Row("names", graphtest.List("onion", "tomato"))).
		On("RECIPE_OF", func(q graphtest.Query) ([]*graph.Record, error) {
			if got := q.Params["ingredients"].([]string); len(got) != 2 {
				return nil, errors.New("unexpected ingredients")
			}
			return recipeRows(), nil
		})
	svc, err := NewRecipeService(provider, RecipeServiceConfig{})
	require.NoError(t, err)

	got, err := svc.AvailableRecipesForUser(context.Background(), "cook@example.com")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "R1", got[0].Recipe)

	sessions := provider.Sessions()
	require.Len(t, sessions, 1, "owned names and candidates share one transaction")
	assert.Equal(t, "cook@example.com", provider.Executed()[0].Params["email"])
}

func TestRecipeService_UserWithoutIngredients(t *testing.T) {
	provider := graphtest.NewProvider()
	svc, err := NewRecipeService(provider, RecipeServiceConfig{})
	require.NoError(t, err)

	got, err := svc.AvailableRecipesForUser(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, provider.Executed(), 1)
}

func TestRecipeService_PartialRecipes(t *testing.T) {
	provider := graphtest.NewProvider().OnRows("RECIPE_OF", recipeRows()...)
	svc, err := NewRecipeService(provider, RecipeServiceConfig{})
	require.NoError(t, err)

	got, err := svc.PartialRecipes(context.Background(), domain.AvailableRecipeRequest{Ingredients: []string{"tomato", "onion"}})
	require.NoError(t, err)

	assert.Equal(t, []domain.PartialRecipe{
		{Food: "Salad", Recipe: "R1", Included: []string{"tomato", "onion"}, Missing: []string{"garlic"}},
		{Food: "Soup", Recipe: "R2", Included: []string{"tomato"}, Missing: []string{}},
	}, got)
}
