package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log/v2"
	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/client"
)

var chatCmd = &cobra.Command{
	Use:   "chat <model-ref> <prompt>",
	Short: "Send a prompt to a model and stream the reply",
	Long: `Sends one prompt to the referenced model and streams the reply to
stdout. The call is logged to the usage store like any library call.

The model reference is "provider:model" (e.g. anthropic:claude-sonnet-4-5)
or a bare model name with a recognizable prefix (e.g. gpt-4o-mini). A use
case name from the hint table also works with --use-case.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useCase, _ := cmd.Flags().GetBool("use-case")
		system, _ := cmd.Flags().GetString("system")
		maxTokens, _ := cmd.Flags().GetInt("max-tokens")
		temperature, _ := cmd.Flags().GetFloat64("temperature")
		noStream, _ := cmd.Flags().GetBool("no-stream")

		if len(args) < 2 {
			return fmt.Errorf("usage: llmbridge chat <model-ref> <prompt>")
		}
		return runChat(cmd.Context(), chatParams{
			ref:         args[0],
			prompt:      strings.Join(args[1:], " "),
			refIsHint:   useCase,
			system:      system,
			maxTokens:   maxTokens,
			temperature: temperature,
			stream:      !noStream,
			tempSet:     cmd.Flags().Changed("temperature"),
		})
	},
}

type chatParams struct {
	ref         string
	prompt      string
	refIsHint   bool
	system      string
	maxTokens   int
	temperature float64
	tempSet     bool
	stream      bool
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("use-case", false, "treat <model-ref> as a use case hint name")
	chatCmd.Flags().String("system", "", "system prompt")
	chatCmd.Flags().Int("max-tokens", 0, "limit the response length")
	chatCmd.Flags().Float64("temperature", 0, "sampling temperature")
	chatCmd.Flags().Bool("no-stream", false, "wait for the full response instead of streaming")
}

func runChat(ctx context.Context, p chatParams) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	config := client.ConfigFromEnv()
	config.Store = store
	config.Origin = "llmbridge-cli"
	c := client.New(config)
	defer c.Close()

	ref := p.ref
	if p.refIsHint {
		resolved, err := c.ModelForUseCase(ctx, p.ref)
		if err != nil {
			return err
		}
		ref = resolved.String()
		log.Debug("use case resolved", "use_case", p.ref, "model", ref)
	}

	opts := []ai.Option{ai.WithModel(ref)}
	if p.maxTokens > 0 {
		opts = append(opts, ai.WithMaxTokens(p.maxTokens))
	}
	if p.tempSet {
		opts = append(opts, ai.WithTemperature(p.temperature))
	}

	var messages []ai.Message
	if p.system != "" {
		messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: p.system})
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: p.prompt})

	if !p.stream {
		resp, err := c.Chat(ctx, messages, opts...)
		if err != nil {
			return err
		}
		fmt.Println(resp.Content)
		logUsage(resp)
		return nil
	}

	events, err := c.ChatStream(ctx, messages, opts...)
	if err != nil {
		return err
	}
	for ev := range events {
		if ev.Err != nil {
			fmt.Println()
			return ev.Err
		}
		fmt.Print(ev.Delta)
		if ev.Done {
			fmt.Println()
			logUsage(ev.Response)
		}
	}
	return nil
}

func logUsage(resp *ai.Response) {
	if resp == nil {
		return
	}
	log.Debug("chat complete",
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"finish", resp.FinishReason)
}
