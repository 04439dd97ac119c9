package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/log/v2"
	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/llmbridge"
)

var hintsCmd = &cobra.Command{
	Use:   "hints",
	Short: "Manage use case model hints",
	Long: `Use case hints map names like "best_coding" or "cheapest_good" to the
model that currently serves them best. Applications resolve hints at call
time, so repointing a hint redirects traffic without a deploy.`,
}

var hintsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured hints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHintsList(cmd.Context())
	},
}

var hintsSetCmd = &cobra.Command{
	Use:   "set <use-case> <model-ref>",
	Short: "Point a use case at a model",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHintsSet(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(hintsCmd)
	hintsCmd.AddCommand(hintsListCmd)
	hintsCmd.AddCommand(hintsSetCmd)
}

func runHintsList(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	hints, err := store.ListUsageHints(ctx)
	if err != nil {
		return err
	}
	if len(hints) == 0 {
		fmt.Println("no hints configured; run 'llmbridge db setup' to seed the defaults")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USE CASE\tMODEL\tUPDATED")
	for _, h := range hints {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			h.UseCase, h.Ref(), h.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runHintsSet(ctx context.Context, useCase, refStr string) error {
	ref, err := ai.ParseModelRef(refStr)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetUsageHint(ctx, useCase, ref.Provider, ref.Model); err != nil {
		return err
	}
	log.Info("hint updated", "use_case", useCase, "model", ref.String())
	return nil
}
