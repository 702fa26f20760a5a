package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/infrastructure/cache"
	"github.com/saveplate/backend/internal/infrastructure/graph"
)

const defaultAutocompleteLimit = 10

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL     time.Duration
	CacheSize    int
	DefaultLimit int
	Now          func() time.Time
}

// CatalogService answers name lookups over ingredients and sauces
type CatalogService struct {
	autocomplete *cache.Memoizer[domain.AutocompleteQuery, []string]
	defaultLimit int
}

// NewCatalogService creates a catalog service reading from provider
func NewCatalogService(provider graph.SessionProvider, config CatalogServiceConfig) (*CatalogService, error) {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}
	cacheSize := config.CacheSize
	if cacheSize == 0 {
		cacheSize = 128
	}
	limit := config.DefaultLimit
	if limit <= 0 {
		limit = defaultAutocompleteLimit
	}

	autocomplete, err := cache.NewMemoizer("autocompletion",
		graph.Transactional(provider, graph.Read, graph.Autocomplete),
		cache.Options{TTL: cacheTTL, MaxSize: cacheSize, Now: config.Now},
	)
	if err != nil {
		return nil, fmt.Errorf("autocompletion cache: %w", err)
	}

	return &CatalogService{autocomplete: autocomplete, defaultLimit: limit}, nil
}

// Autocomplete returns names of the requested kind starting with the prefix,
// most popular first.
func (s *CatalogService) Autocomplete(ctx context.Context, q domain.AutocompleteQuery) ([]string, error) {
	if _, ok := q.Kind.Label(); !ok {
		return nil, domain.ErrInvalidRequest
	}
	if q.Limit <= 0 {
		q.Limit = s.defaultLimit
	}
	return s.autocomplete.Get(ctx, q)
}
