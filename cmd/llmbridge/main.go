// Command llmbridge manages the LLM usage store and model registry, and
// provides a quick chat interface for smoke-testing provider access.
package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environment variables win
	_ = godotenv.Load()
	Execute()
}
