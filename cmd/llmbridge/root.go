package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log/v2"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/llmbridge/db"
)

var (
	flagDB      string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "llmbridge",
	Short: "Unified LLM client with usage tracking",
	Long: `llmbridge routes chat requests to OpenAI, Anthropic, Google, and
Ollama, logs every call to a usage store, and maintains a model registry
with pricing and capabilities.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", os.Getenv("LLMBRIDGE_DB"),
		"usage store connection string (SQLite path or postgres:// URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// openStore opens the usage store named by --db (or LLMBRIDGE_DB).
// The caller closes it.
func openStore() (*db.DB, error) {
	return db.Open(flagDB)
}
