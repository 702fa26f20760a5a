package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saveplate/backend/config"
	httpDelivery "github.com/saveplate/backend/internal/delivery/http"
	"github.com/saveplate/backend/internal/infrastructure/graph"
	"github.com/saveplate/backend/internal/infrastructure/security"
	"github.com/saveplate/backend/internal/logging"
	"github.com/saveplate/backend/internal/usecase"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting SavePlate backend")

	manager := newGraphManager(cfg)
	if err := manager.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize graph store: %w", err)
	}
	defer func() {
		if err := manager.Close(context.WithoutCancel(ctx)); err != nil {
			logging.Error().Err(err).Msg("failed to close graph store")
		}
	}()
	logging.Info().Str("url", cfg.Database.URL).Str("database", cfg.Database.Name).Msg("graph store connected")

	handler, err := buildHandler(cfg, manager)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: httpDelivery.SetupRouter(cfg, handler),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

func buildHandler(cfg *config.Config, manager *graph.Manager) (*httpDelivery.Handler, error) {
	tokens, err := security.NewJWTIssuer(security.TokenConfig{
		Secret:     cfg.Auth.SecretKey,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	recipes, err := usecase.NewRecipeService(manager, usecase.RecipeServiceConfig{
		CacheTTL:  cfg.Cache.TTL,
		CacheSize: cfg.Cache.MaxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("recipe service: %w", err)
	}
	catalog, err := usecase.NewCatalogService(manager, usecase.CatalogServiceConfig{
		CacheTTL:  cfg.Cache.TTL,
		CacheSize: cfg.Cache.MaxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}

	return httpDelivery.NewHandler(httpDelivery.Services{
		Auth:        usecase.NewAuthService(manager, hasher, tokens, usecase.AuthServiceConfig{}),
		Recipes:     recipes,
		Catalog:     catalog,
		Ingredients: usecase.NewIngredientService(manager),
		GraphReady:  manager.Initialized,
	}), nil
}
