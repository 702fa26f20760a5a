package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/cache"
	"github.com/saveplate/backend/internal/infrastructure/graph"
)

// RecipeServiceConfig holds configuration for the recipe service
type RecipeServiceConfig struct {
	CacheTTL  time.Duration
	CacheSize int
	// Now overrides the memoizer clock in tests.
	Now func() time.Time
}

// RecipeService recommends recipes from a set of ingredient names
type RecipeService struct {
	available *cache.Memoizer[[]string, []domain.RecipeMatch]
	forUser   func(ctx context.Context, email string) ([]domain.RecipeMatch, error)
	partial   func(ctx context.Context, names []string) ([]domain.PartialRecipe, error)
}

// NewRecipeService creates a recipe service reading from provider
func NewRecipeService(provider graph.SessionProvider, config RecipeServiceConfig) (*RecipeService, error) {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}
	cacheSize := config.CacheSize
	if cacheSize == 0 {
		cacheSize = 128
	}

	available, err := cache.NewMemoizer("recipes_available",
		graph.Transactional(provider, graph.Read, scoreRecipes),
		cache.Options{TTL: cacheTTL, MaxSize: cacheSize, Now: config.Now},
	)
	if err != nil {
		return nil, fmt.Errorf("recipe cache: %w", err)
	}

	return &RecipeService{
		available: available,
		forUser:   graph.Transactional(provider, graph.Read, scoreRecipesForUser),
		partial:   graph.Transactional(provider, graph.Read, rankPartialRecipes),
	}, nil
}

// AvailableRecipes scores every recipe sharing an ingredient or sauce with the
// request. Results are reused for up to the cache TTL.
func (s *RecipeService) AvailableRecipes(ctx context.Context, req domain.AvailableRecipeRequest) ([]domain.RecipeMatch, error) {
	names := NormalizeIngredients(req.Ingredients, req.Sauces)
	if len(names) == 0 {
		return []domain.RecipeMatch{}, nil
	}
	return s.available.Get(ctx, names)
}

// AvailableRecipesForUser scores recipes against what the user owns.
func (s *RecipeService) AvailableRecipesForUser(ctx context.Context, email string) ([]domain.RecipeMatch, error) {
	return s.forUser(ctx, email)
}

// PartialRecipes lists recipes the request covers in part, with the missing
// ingredients of each.
func (s *RecipeService) PartialRecipes(ctx context.Context, req domain.AvailableRecipeRequest) ([]domain.PartialRecipe, error) {
	names := NormalizeIngredients(req.Ingredients, req.Sauces)
	if len(names) == 0 {
		return []domain.PartialRecipe{}, nil
	}
	return s.partial(ctx, names)
}

func scoreRecipes(ctx context.Context, tx graph.Tx, names []string) ([]domain.RecipeMatch, error) {
	candidates, err := graph.RecipeCandidates(ctx, tx, names)
	if err != nil {
		return nil, err
	}
	return ScoreRecipes(names, candidates), nil
}

func scoreRecipesForUser(ctx context.Context, tx graph.Tx, email string) ([]domain.RecipeMatch, error) {
	owned, err := graph.OwnedIngredientNames(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	return scoreRecipes(ctx, tx, NormalizeIngredients(owned))
}

func rankPartialRecipes(ctx context.Context, tx graph.Tx, names []string) ([]domain.PartialRecipe, error) {
	candidates, err := graph.RecipeCandidates(ctx, tx, names)
	if err != nil {
		return nil, err
	}
	return RankPartialRecipes(names, candidates), nil
}
