// Package client provides the unified entry point for talking to LLM
// providers. A Client routes chat requests to the right provider by model
// reference, retries transient failures, and logs every call to the usage
// store with token counts and estimated cost.
//
// Providers are constructed lazily from API keys the first time a request
// routes to them, so a Client configured with only an Anthropic key never
// touches the OpenAI SDK.
//
// Basic usage:
//
//	c, err := client.NewFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	resp, err := c.Chat(ctx, []llmbridge.Message{
//		{Role: llmbridge.RoleUser, Content: "Hello!"},
//	}, llmbridge.WithModel("anthropic:claude-sonnet-4-5"))
package client
