package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/log/v2"
	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/catalog"
	"github.com/spetersoncode/llmbridge/db"
	"github.com/spetersoncode/llmbridge/internal/provider/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and refresh the model registry",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered models",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		all, _ := cmd.Flags().GetBool("all")
		return runModelsList(cmd.Context(), provider, all)
	},
}

var modelsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reconcile the registry with the curated catalog",
	Long: `Compares the registry against the curated model catalog, then adds
missing models, updates changed pricing and limits, and deactivates models
no longer in the catalog. Use --dry-run to preview without writing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return runModelsRefresh(cmd.Context(), dryRun)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsRefreshCmd)

	modelsListCmd.Flags().StringP("provider", "p", "", "filter by provider (openai, anthropic, google, ollama)")
	modelsListCmd.Flags().BoolP("all", "a", false, "include deactivated models")
	modelsRefreshCmd.Flags().Bool("dry-run", false, "show the diff without applying it")
}

func runModelsList(ctx context.Context, provider string, all bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	models, err := store.ListModels(ctx, db.ModelFilter{
		Provider:        ai.Provider(provider),
		IncludeInactive: all,
	})
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println("no models registered; run 'llmbridge db setup' or 'llmbridge models refresh'")
		return printLocalOllama(ctx, os.Stdout)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tDISPLAY\tCTX\t$IN/M\t$OUT/M\tCAPS\tSTATUS")
	for _, m := range models {
		status := "active"
		if !m.Active() {
			status = "inactive"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			m.Ref(), m.DisplayName, m.MaxContext,
			price(m.DollarsPerMillionInput), price(m.DollarsPerMillionOutput),
			caps(m), status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if provider == "" || provider == string(ai.ProviderOllama) {
		return printLocalOllama(ctx, os.Stdout)
	}
	return nil
}

// localOllamaBase returns the Ollama server address when the provider is
// enabled through the environment, the same way the client enables it.
func localOllamaBase() (string, bool) {
	if base := os.Getenv("OLLAMA_API_BASE"); base != "" {
		return base, true
	}
	if on, _ := strconv.ParseBool(os.Getenv("ENABLE_OLLAMA")); on {
		return ollama.DefaultBaseURL, true
	}
	return "", false
}

// printLocalOllama appends the models actually installed on the local
// Ollama server. The registry only carries the curated entries; ad-hoc
// pulls still route and are worth showing.
func printLocalOllama(ctx context.Context, out io.Writer) error {
	base, enabled := localOllamaBase()
	if !enabled {
		return nil
	}

	oc := ollama.New(base)
	if !oc.Available(ctx) {
		log.Debug("ollama server not reachable", "base_url", base)
		return nil
	}

	tags, err := oc.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\ninstalled ollama models (%s)\n", base)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tPARAMS\tQUANT\tSIZE")
	for _, m := range tags {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.Name, orDash(m.Details.ParameterSize), orDash(m.Details.QuantizationLevel),
			formatSize(m.Size))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func price(dollarsPerMillion float64) string {
	if dollarsPerMillion == 0 {
		return "free"
	}
	return fmt.Sprintf("%.2f", dollarsPerMillion)
}

func caps(m ai.ModelInfo) string {
	out := ""
	if m.SupportsVision {
		out += "V"
	}
	if m.SupportsFunctionCalling {
		out += "T"
	}
	if m.SupportsJSONMode {
		out += "J"
	}
	if out == "" {
		out = "-"
	}
	return out
}

func runModelsRefresh(ctx context.Context, dryRun bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	refresher := &catalog.Refresher{DB: store}

	diff, err := refresher.Preview(ctx)
	if err != nil {
		return err
	}
	if diff.Empty() {
		fmt.Println("registry is up to date")
		return nil
	}

	for _, m := range diff.New {
		fmt.Printf("+ %s (%s)\n", m.Ref(), m.DisplayName)
	}
	for _, change := range diff.Updated {
		fmt.Printf("~ %s\n", change.Ref)
		for _, field := range change.Fields {
			fmt.Printf("    %s\n", field)
		}
	}
	for _, m := range diff.Deactivated {
		fmt.Printf("- %s (deactivate)\n", m.Ref())
	}

	if dryRun {
		fmt.Println("\ndry run; nothing written")
		return nil
	}

	summary, err := refresher.Apply(ctx)
	if err != nil {
		return err
	}
	log.Info("registry refreshed",
		"added", summary.Added, "updated", summary.Updated, "deactivated", summary.Deactivated)
	return nil
}
