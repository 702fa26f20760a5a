package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saveplate/backend/config"
	"github.com/saveplate/backend/internal/infrastructure/graph"
	"github.com/saveplate/backend/internal/logging"
)

const version = "1.0.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "saveplate",
		Short:         "SavePlate recipe and ingredient backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newPingCommand())
	return root
}

func newPingCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the graph store is reachable with the configured credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			manager := newGraphManager(cfg)
			if err := manager.Initialize(ctx); err != nil {
				return err
			}
			if err := manager.Close(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "graph store %s is reachable\n", cfg.Database.URL)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for the store")

	return cmd
}

// setup loads configuration and applies the logging settings.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	return cfg, nil
}

func newGraphManager(cfg *config.Config) *graph.Manager {
	return graph.NewManager(graph.Config{
		URL:                     cfg.Database.URL,
		Username:                cfg.Database.User,
		Password:                cfg.Database.Password,
		Database:                cfg.Database.Name,
		MaxConnectionPoolSize:   cfg.Database.MaxPoolSize,
		MaxTransactionRetryTime: cfg.Database.MaxRetryTime,
	})
}
