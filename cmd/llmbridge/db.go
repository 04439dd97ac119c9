package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log/v2"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/llmbridge/catalog"
	"github.com/spetersoncode/llmbridge/db"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the usage store",
}

var dbSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Apply migrations and seed the model registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDBSetup(cmd.Context())
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store health, dialect, and migration state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDBStatus(cmd.Context())
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all tables and re-apply migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return runDBReset(cmd.Context(), yes)
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbSetupCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbResetCmd)

	dbResetCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}

func runDBSetup(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("migrations applied", "dialect", store.Dialect())

	seeded, err := store.SeedModels(ctx, catalog.All())
	if err != nil {
		return fmt.Errorf("seed models: %w", err)
	}
	if seeded > 0 {
		log.Info("model registry seeded", "models", seeded)
	} else {
		log.Info("model registry already populated")
	}

	hints, err := seedUsageHints(ctx, store)
	if err != nil {
		return fmt.Errorf("seed usage hints: %w", err)
	}
	if hints > 0 {
		log.Info("usage hints seeded", "hints", hints)
	}
	return nil
}

// seedUsageHints installs the built-in use case hints without overwriting
// hints an operator has already customized.
func seedUsageHints(ctx context.Context, store *db.DB) (int, error) {
	seeded := 0
	for useCase, ref := range catalog.DefaultUsageHints {
		_, err := store.UsageHint(ctx, useCase)
		if err == nil {
			continue
		}
		if !errors.Is(err, db.ErrNotFound) {
			return seeded, err
		}
		if err := store.SetUsageHint(ctx, useCase, ref.Provider, ref.Model); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

func runDBStatus(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Health(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	fmt.Printf("dialect:     %s\n", store.Dialect())
	fmt.Printf("health:      ok\n")

	applied, err := store.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	pending, err := store.PendingMigrations(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("migrations:  %d applied, %d pending\n", len(applied), len(pending))
	for _, name := range pending {
		fmt.Printf("  pending: %s\n", name)
	}

	if len(pending) == 0 {
		models, err := store.ListModels(ctx, db.ModelFilter{IncludeInactive: true})
		if err != nil {
			return err
		}
		active := 0
		for _, m := range models {
			if m.Active() {
				active++
			}
		}
		fmt.Printf("models:      %d active, %d total\n", active, len(models))
	}

	stats := store.Stats()
	fmt.Printf("pool:        %d open, %d in use\n", stats.OpenConnections, stats.InUse)
	return nil
}

func runDBReset(ctx context.Context, yes bool) error {
	if !yes && !confirm("This drops all usage data and models. Type 'yes' to continue: ") {
		fmt.Println("aborted")
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	log.Info("store reset", "dialect", store.Dialect())
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}
