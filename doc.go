// Package llmbridge provides a unified interface for routing chat requests
// to multiple LLM providers while tracking usage and cost in a relational
// store.
//
// The library abstracts away provider-specific APIs, allowing you to write
// code once and switch between OpenAI (GPT), Anthropic (Claude), Google
// (Gemini), and local Ollama models with minimal changes. Every call can be
// logged to SQLite or PostgreSQL together with token counts and the
// estimated cost derived from the model registry.
//
// # Core Interfaces
//
// The root package defines the provider contract and the shared request and
// response schema:
//
//   - [ChatProvider]: send conversations and receive responses (text, streaming, tool calls)
//   - [Message], [Response], [Usage]: the unified wire-format-independent schema
//   - [ModelInfo], [CallRecord], [UsageStats]: registry and accounting records
//
// Use the [github.com/spetersoncode/llmbridge/client] package as the entry
// point, and the [github.com/spetersoncode/llmbridge/db] package to open a
// usage store.
//
// # Basic Usage
//
// Route a chat request by model reference:
//
//	bridge, err := client.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bridge.Close()
//
//	messages := []llmbridge.Message{
//	    {Role: llmbridge.RoleUser, Content: "What is the capital of France?"},
//	}
//
//	resp, err := bridge.Chat(ctx, messages, llmbridge.WithModel("openai:gpt-4o-mini"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// Model references take the form "provider:model". When the prefix is
// omitted the provider is inferred from well-known model name patterns, so
// "claude-sonnet-4-5" routes to Anthropic and "gpt-4o" to OpenAI.
//
// # Streaming Responses
//
// For real-time output, use ChatStream:
//
//	stream, err := bridge.ChatStream(ctx, messages, llmbridge.WithModel("anthropic:claude-haiku-4-5"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range stream {
//	    if event.Err != nil {
//	        log.Fatal(event.Err)
//	    }
//	    fmt.Print(event.Delta)
//	}
//
// # Usage Tracking
//
// When the bridge is constructed with a store, every call is recorded with
// token counts and the cost computed from the registry's per-million-token
// pricing:
//
//	stats, err := bridge.UsageStats(ctx, "myapp", 30)
//	fmt.Printf("calls=%d tokens=%d cost=$%.4f\n",
//	    stats.TotalCalls, stats.TotalTokens, stats.TotalCost)
//
// # Error Handling
//
// Provider errors are categorized as transient, permanent, or user input so
// callers (and the built-in retry layer) can decide how to react:
//
//	resp, err := bridge.Chat(ctx, messages)
//	if llmbridge.IsTransient(err) {
//	    // rate limited or server error; safe to retry later
//	}
package llmbridge
