package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Report on logged API calls",
}

var usageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate usage over a reporting window",
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, _ := cmd.Flags().GetString("origin")
		days, _ := cmd.Flags().GetInt("days")
		return runUsageStats(cmd.Context(), origin, days)
	},
}

var usageRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent logged calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		return runUsageRecent(cmd.Context(), limit, offset)
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.AddCommand(usageStatsCmd)
	usageCmd.AddCommand(usageRecentCmd)

	usageStatsCmd.Flags().String("origin", "", "filter to one application origin")
	usageStatsCmd.Flags().Int("days", 30, "reporting window in days")
	usageRecentCmd.Flags().IntP("limit", "n", 20, "number of calls to show")
	usageRecentCmd.Flags().Int("offset", 0, "number of calls to skip")
}

func runUsageStats(ctx context.Context, origin string, days int) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.UsageStats(ctx, origin, days)
	if err != nil {
		return err
	}

	scope := "all origins"
	if origin != "" {
		scope = fmt.Sprintf("origin %q", origin)
	}
	fmt.Printf("usage over the last %d days (%s)\n\n", days, scope)
	fmt.Printf("calls:         %d\n", stats.TotalCalls)
	fmt.Printf("tokens:        %d\n", stats.TotalTokens)
	fmt.Printf("cost:          $%.4f\n", stats.TotalCost)
	fmt.Printf("avg cost/call: $%.6f\n", stats.AvgCostPerCall)
	fmt.Printf("success rate:  %.1f%%\n", stats.SuccessRate*100)
	fmt.Printf("providers:     %d\n", stats.UniqueProviders)
	fmt.Printf("models:        %d\n", stats.UniqueModels)

	if len(stats.ByProvider) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tCALLS\tTOKENS\tCOST")
		for _, p := range stats.ByProvider {
			fmt.Fprintf(w, "%s\t%d\t%d\t$%.4f\n", p.Provider, p.Calls, p.Tokens, p.Cost)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runUsageRecent(ctx context.Context, limit, offset int) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	calls, err := store.RecentCalls(ctx, limit, offset)
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		fmt.Println("no calls logged")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CALLED\tORIGIN\tMODEL\tTOKENS\tCOST\tSTATUS")
	for _, c := range calls {
		status := "ok"
		if c.Failed() {
			status = c.ErrorType
		}
		fmt.Fprintf(w, "%s\t%s\t%s:%s\t%d\t$%.6f\t%s\n",
			c.CalledAt.Local().Format("2006-01-02 15:04:05"),
			c.Origin, c.Provider, c.ModelName,
			c.TotalTokens, c.EstimatedCost, status)
	}
	return w.Flush()
}
