package usecase

import (
	"context"
	"strings"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/graph"
)

// IngredientService manages what a user keeps in their kitchen
type IngredientService struct {
	list func(ctx context.Context, email string) ([]domain.OwnedIngredient, error)
	add  func(ctx context.Context, req ownedUpdate) ([]domain.OwnedIngredient, error)
}

type ownedUpdate struct {
	email string
	items []domain.IngredientAmount
}

// NewIngredientService creates an ingredient service backed by provider
func NewIngredientService(provider graph.SessionProvider) *IngredientService {
	return &IngredientService{
		list: graph.Transactional(provider, graph.Read, graph.ListOwnedIngredients),
		add: graph.Transactional(provider, graph.Write, func(ctx context.Context, tx graph.Tx, u ownedUpdate) ([]domain.OwnedIngredient, error) {
			return graph.AddOwnedIngredients(ctx, tx, u.email, u.items)
		}),
	}
}

// ListIngredients returns the user's ingredients and sauces, ordered by name
func (s *IngredientService) ListIngredients(ctx context.Context, email string) ([]domain.OwnedIngredient, error) {
	return s.list(ctx, email)
}

// AddIngredients records the amounts the user holds. Entries naming the same
// ingredient collapse to the last one. Names unknown to the catalog are
// ignored; the stored entries are returned.
func (s *IngredientService) AddIngredients(ctx context.Context, email string, req domain.AddIngredientsRequest) ([]domain.OwnedIngredient, error) {
	index := make(map[string]int, len(req.Ingredients))
	items := make([]domain.IngredientAmount, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" || item.Amount < 0 {
			return nil, domain.ErrInvalidRequest
		}
		if i, ok := index[item.Name]; ok {
			items[i] = item
			continue
		}
		index[item.Name] = len(items)
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	return s.add(ctx, ownedUpdate{email: email, items: items})
}
