package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/spetersoncode/llmbridge/catalog"
	"github.com/spetersoncode/llmbridge/db"
	"github.com/spetersoncode/llmbridge/internal/provider/anthropic"
	"github.com/spetersoncode/llmbridge/internal/provider/google"
	"github.com/spetersoncode/llmbridge/internal/provider/ollama"
	"github.com/spetersoncode/llmbridge/internal/provider/openai"
	"github.com/spetersoncode/llmbridge/retry"
)

// DefaultOrigin labels call records when Config.Origin is empty.
const DefaultOrigin = "llmbridge"

var (
	// ErrMissingAPIKey is returned when a request routes to a provider
	// without a configured API key.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrNoModel is returned when a request specifies no model and the
	// client has no default.
	ErrNoModel = errors.New("no model specified")

	// ErrNoStore is returned from usage operations when the client was
	// built without a usage store.
	ErrNoStore = errors.New("no usage store configured")
)

// APIKeys holds the per-provider credentials.
type APIKeys struct {
	OpenAI    string
	Anthropic string
	Google    string
}

// Config configures a Client.
type Config struct {
	// APIKeys are the provider credentials. Providers without a key are
	// unavailable unless registered explicitly via RegisterProvider.
	APIKeys APIKeys

	// OllamaBaseURL points at a local Ollama server. A non-empty value
	// enables the Ollama provider.
	OllamaBaseURL string

	// EnableOllama enables the Ollama provider at its default base URL
	// when OllamaBaseURL is empty.
	EnableOllama bool

	// Store receives call records and serves pricing lookups. Nil disables
	// usage logging and cost computation.
	Store *db.DB

	// Origin labels call records with the calling application. Defaults
	// to DefaultOrigin.
	Origin string

	// DefaultModel is the model reference used when a request does not
	// set one.
	DefaultModel string

	// RetryConfig controls retries of transient failures. Nil means
	// retry.DefaultConfig().
	RetryConfig *retry.Config

	// Events receives client events. Sends never block; events are
	// dropped when the channel is full.
	Events chan<- Event

	// PricingTTL bounds the age of cached registry pricing. Zero means
	// the 5 minute default.
	PricingTTL time.Duration
}

// Client routes chat requests to providers and logs usage.
// It is safe for concurrent use.
type Client struct {
	config      Config
	store       *db.DB
	ownsStore   bool
	origin      string
	retryConfig retry.Config
	events      chan<- Event
	pricing     *pricingCache

	mu        sync.RWMutex
	providers map[ai.Provider]ai.ChatProvider
	initErrs  map[ai.Provider]error
}

// New creates a Client from an explicit configuration.
func New(config Config) *Client {
	if config.Origin == "" {
		config.Origin = DefaultOrigin
	}

	retryConfig := retry.DefaultConfig()
	if config.RetryConfig != nil {
		retryConfig = *config.RetryConfig
	}

	c := &Client{
		config:      config,
		store:       config.Store,
		origin:      config.Origin,
		retryConfig: retryConfig,
		events:      config.Events,
		providers:   make(map[ai.Provider]ai.ChatProvider),
		initErrs:    make(map[ai.Provider]error),
	}
	if config.Store != nil {
		c.pricing = newPricingCache(config.Store, config.PricingTTL)
	}
	return c
}

// ConfigFromEnv builds a Config from environment variables:
//
//	OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY (or GEMINI_API_KEY)
//	OLLAMA_API_BASE, ENABLE_OLLAMA
//	LLMBRIDGE_ORIGIN, LLMBRIDGE_DEFAULT_MODEL
//
// The usage store is not opened; set Config.Store or use NewFromEnv.
func ConfigFromEnv() Config {
	config := Config{
		APIKeys: APIKeys{
			OpenAI:    os.Getenv("OPENAI_API_KEY"),
			Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
			Google:    os.Getenv("GOOGLE_API_KEY"),
		},
		OllamaBaseURL: os.Getenv("OLLAMA_API_BASE"),
		Origin:        os.Getenv("LLMBRIDGE_ORIGIN"),
		DefaultModel:  os.Getenv("LLMBRIDGE_DEFAULT_MODEL"),
	}
	if config.APIKeys.Google == "" {
		config.APIKeys.Google = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("ENABLE_OLLAMA"); v != "" {
		config.EnableOllama, _ = strconv.ParseBool(v)
	}
	return config
}

// NewFromEnv creates a Client from environment variables (see
// ConfigFromEnv). It opens the usage store named by LLMBRIDGE_DB (a SQLite
// path by default), applies pending migrations, and seeds the model
// registry from the curated catalog when empty. The store is closed by
// Close.
func NewFromEnv() (*Client, error) {
	config := ConfigFromEnv()

	store, err := db.Open(os.Getenv("LLMBRIDGE_DB"))
	if err != nil {
		return nil, fmt.Errorf("open usage store: %w", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate usage store: %w", err)
	}
	if _, err := store.SeedModels(ctx, catalog.All()); err != nil {
		store.Close()
		return nil, fmt.Errorf("seed model registry: %w", err)
	}

	config.Store = store
	c := New(config)
	c.ownsStore = true
	return c, nil
}

// Close releases the usage store when the client opened it itself
// (NewFromEnv). Stores passed in via Config remain the caller's to close.
func (c *Client) Close() error {
	if c.ownsStore && c.store != nil {
		return c.store.Close()
	}
	return nil
}

// RegisterProvider installs or replaces the ChatProvider for a provider
// name. Useful for custom endpoints and for tests.
func (c *Client) RegisterProvider(p ai.Provider, cp ai.ChatProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[p] = cp
	delete(c.initErrs, p)
}

// Providers returns the providers this client can route to, sorted by name.
func (c *Client) Providers() []ai.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[ai.Provider]bool)
	if c.config.APIKeys.OpenAI != "" {
		seen[ai.ProviderOpenAI] = true
	}
	if c.config.APIKeys.Anthropic != "" {
		seen[ai.ProviderAnthropic] = true
	}
	if c.config.APIKeys.Google != "" {
		seen[ai.ProviderGoogle] = true
	}
	if c.config.EnableOllama || c.config.OllamaBaseURL != "" {
		seen[ai.ProviderOllama] = true
	}
	for p := range c.providers {
		seen[p] = true
	}

	out := make([]ai.Provider, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Models lists the active models in the registry.
func (c *Client) Models(ctx context.Context) ([]ai.ModelInfo, error) {
	if c.store == nil {
		return nil, ErrNoStore
	}
	return c.store.ListModels(ctx, db.ModelFilter{})
}

// ModelForUseCase resolves a named use case ("cheapest_good",
// "best_coding", ...) to a model reference. Store-level hints take
// precedence over the built-in defaults.
func (c *Client) ModelForUseCase(ctx context.Context, useCase string) (ai.ModelRef, error) {
	if c.store != nil {
		hint, err := c.store.UsageHint(ctx, useCase)
		switch {
		case err == nil:
			return hint.Ref(), nil
		case !errors.Is(err, db.ErrNotFound):
			return ai.ModelRef{}, err
		}
	}
	if ref, ok := catalog.DefaultUsageHints[useCase]; ok {
		return ref, nil
	}
	return ai.ModelRef{}, fmt.Errorf("no model hint for use case %q", useCase)
}

// UsageStats aggregates logged calls over the last days, optionally
// filtered to one origin ("" means all origins).
func (c *Client) UsageStats(ctx context.Context, origin string, days int) (*ai.UsageStats, error) {
	if c.store == nil {
		return nil, ErrNoStore
	}
	return c.store.UsageStats(ctx, origin, days)
}

// RecentCalls returns logged calls, newest first.
func (c *Client) RecentCalls(ctx context.Context, limit, offset int) ([]ai.CallRecord, error) {
	if c.store == nil {
		return nil, ErrNoStore
	}
	return c.store.RecentCalls(ctx, limit, offset)
}

// chatProvider returns the ChatProvider for p, constructing it on first
// use. Construction failures are cached so a missing key does not retry
// SDK setup on every request.
func (c *Client) chatProvider(ctx context.Context, p ai.Provider) (ai.ChatProvider, error) {
	c.mu.RLock()
	if cp, ok := c.providers[p]; ok {
		c.mu.RUnlock()
		return cp, nil
	}
	if err, ok := c.initErrs[p]; ok {
		c.mu.RUnlock()
		return nil, err
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have won the race
	if cp, ok := c.providers[p]; ok {
		return cp, nil
	}
	if err, ok := c.initErrs[p]; ok {
		return nil, err
	}

	cp, err := c.buildProvider(ctx, p)
	if err != nil {
		c.initErrs[p] = err
		return nil, err
	}
	c.providers[p] = cp
	return cp, nil
}

func (c *Client) buildProvider(ctx context.Context, p ai.Provider) (ai.ChatProvider, error) {
	switch p {
	case ai.ProviderOpenAI:
		if c.config.APIKeys.OpenAI == "" {
			return nil, fmt.Errorf("%w: openai (set OPENAI_API_KEY)", ErrMissingAPIKey)
		}
		return openai.New(c.config.APIKeys.OpenAI), nil

	case ai.ProviderAnthropic:
		if c.config.APIKeys.Anthropic == "" {
			return nil, fmt.Errorf("%w: anthropic (set ANTHROPIC_API_KEY)", ErrMissingAPIKey)
		}
		return anthropic.New(c.config.APIKeys.Anthropic), nil

	case ai.ProviderGoogle:
		if c.config.APIKeys.Google == "" {
			return nil, fmt.Errorf("%w: google (set GOOGLE_API_KEY or GEMINI_API_KEY)", ErrMissingAPIKey)
		}
		return google.New(ctx, c.config.APIKeys.Google)

	case ai.ProviderOllama:
		if !c.config.EnableOllama && c.config.OllamaBaseURL == "" {
			return nil, fmt.Errorf("%w: ollama (set OLLAMA_API_BASE or ENABLE_OLLAMA)", ai.ErrProviderNotAvailable)
		}
		baseURL := c.config.OllamaBaseURL
		if baseURL == "" {
			baseURL = ollama.DefaultBaseURL
		}
		return ollama.New(baseURL), nil
	}

	return nil, fmt.Errorf("%w: %s", ai.ErrProviderNotAvailable, p)
}

// resolveRef parses a model reference, letting explicitly registered
// provider names take precedence over the built-in prefix rules.
func (c *Client) resolveRef(refStr string) (ai.ModelRef, error) {
	if provider, model, ok := strings.Cut(refStr, ":"); ok && model != "" {
		p := ai.Provider(provider)
		c.mu.RLock()
		_, registered := c.providers[p]
		c.mu.RUnlock()
		if registered {
			return ai.ModelRef{Provider: p, Model: model}, nil
		}
	}
	return ai.ParseModelRef(refStr)
}

// Chat sends a conversation to the model named by the options (or the
// client default), retrying transient failures, and logs the call to the
// usage store.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)

	refStr := options.Model
	if refStr == "" {
		refStr = c.config.DefaultModel
	}
	if refStr == "" {
		return nil, ErrNoModel
	}

	ref, err := c.resolveRef(refStr)
	if err != nil {
		return nil, err
	}

	cp, err := c.chatProvider(ctx, ref.Provider)
	if err != nil {
		return nil, err
	}

	// The adapter sees the bare model name, never the provider prefix
	callOpts := append(append([]ai.Option{}, opts...), ai.WithModel(ref.Model))

	c.emit(Event{Type: EventRequestStart, Operation: "chat", Provider: ref.Provider, Model: ref.Model})
	start := time.Now()

	var retryEvents chan retry.Event
	if c.events != nil {
		retryEvents = make(chan retry.Event, 10)
		go c.forwardRetryEvents(retryEvents, "chat", ref.Provider, ref.Model)
	}

	resp, err := retry.DoWithEvents(ctx, c.retryConfig, retryEvents, func() (*ai.Response, error) {
		return cp.Chat(ctx, messages, callOpts...)
	})
	if retryEvents != nil {
		close(retryEvents)
	}

	duration := time.Since(start)
	if err != nil {
		c.emit(Event{
			Type: EventRequestError, Operation: "chat",
			Provider: ref.Provider, Model: ref.Model,
			Duration: duration, Error: err,
		})
		c.record(ctx, ref, ai.Usage{}, err)
		return nil, err
	}

	c.emit(Event{
		Type: EventRequestComplete, Operation: "chat",
		Provider: ref.Provider, Model: ref.Model,
		Duration: duration, Usage: &resp.Usage,
	})
	c.record(ctx, ref, resp.Usage, nil)
	return resp, nil
}

// ChatStream is like Chat but returns a channel of streaming events.
// Retries apply to establishing the stream, not to chunks mid-stream.
// The call is logged when the stream finishes or fails.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)

	refStr := options.Model
	if refStr == "" {
		refStr = c.config.DefaultModel
	}
	if refStr == "" {
		return nil, ErrNoModel
	}

	ref, err := c.resolveRef(refStr)
	if err != nil {
		return nil, err
	}

	cp, err := c.chatProvider(ctx, ref.Provider)
	if err != nil {
		return nil, err
	}

	callOpts := append(append([]ai.Option{}, opts...), ai.WithModel(ref.Model))

	c.emit(Event{Type: EventRequestStart, Operation: "chat_stream", Provider: ref.Provider, Model: ref.Model})
	start := time.Now()

	var retryEvents chan retry.Event
	if c.events != nil {
		retryEvents = make(chan retry.Event, 10)
		go c.forwardRetryEvents(retryEvents, "chat_stream", ref.Provider, ref.Model)
	}

	src, err := retry.DoStreamWithEvents(ctx, c.retryConfig, retryEvents, func() (<-chan ai.StreamEvent, error) {
		return cp.ChatStream(ctx, messages, callOpts...)
	})
	if retryEvents != nil {
		close(retryEvents)
	}

	if err != nil {
		c.emit(Event{
			Type: EventRequestError, Operation: "chat_stream",
			Provider: ref.Provider, Model: ref.Model,
			Duration: time.Since(start), Error: err,
		})
		c.record(ctx, ref, ai.Usage{}, err)
		return nil, err
	}

	out := make(chan ai.StreamEvent)
	go func() {
		defer close(out)
		logged := false
		for ev := range src {
			switch {
			case ev.Err != nil:
				c.emit(Event{
					Type: EventRequestError, Operation: "chat_stream",
					Provider: ref.Provider, Model: ref.Model,
					Duration: time.Since(start), Error: ev.Err,
				})
				c.record(ctx, ref, ai.Usage{}, ev.Err)
				logged = true

			case ev.Done && ev.Response != nil:
				c.emit(Event{
					Type: EventRequestComplete, Operation: "chat_stream",
					Provider: ref.Provider, Model: ref.Model,
					Duration: time.Since(start), Usage: &ev.Response.Usage,
				})
				c.record(ctx, ref, ev.Response.Usage, nil)
				logged = true
			}
			out <- ev
		}
		// Streams that close without a done event still get a record
		if !logged {
			c.record(ctx, ref, ai.Usage{}, nil)
		}
	}()
	return out, nil
}

// record writes a call record to the usage store, pricing it from the
// registry. Best-effort: failures surface only as EventRecordError.
func (c *Client) record(ctx context.Context, ref ai.ModelRef, usage ai.Usage, callErr error) {
	if c.store == nil {
		return
	}

	rec := &ai.CallRecord{
		Origin:           c.origin,
		Provider:         ref.Provider,
		ModelName:        ref.Model,
		PromptTokens:     usage.InputTokens,
		CompletionTokens: usage.OutputTokens,
		TotalTokens:      usage.TotalTokens(),
	}

	// Record even after the caller's context is cancelled
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if m := c.pricing.lookup(recCtx, ref); m != nil {
		rec.ModelID = &m.ID
		rec.DollarsPerMillionInputUsed = m.DollarsPerMillionInput
		rec.DollarsPerMillionOutputUsed = m.DollarsPerMillionOutput
		rec.EstimatedCost = m.CostFor(usage.InputTokens, usage.OutputTokens)
	}

	if callErr != nil {
		rec.ErrorType = string(ai.CategoryOf(callErr))
		if rec.ErrorType == "" {
			rec.ErrorType = "unknown"
		}
		rec.ErrorMessage = callErr.Error()
	}

	if err := c.store.RecordCall(recCtx, rec); err != nil {
		c.emit(Event{
			Type: EventRecordError, Provider: ref.Provider, Model: ref.Model, Error: err,
		})
	}
}
