package llmbridge

import "encoding/json"

// ResponseFormat controls the shape of the model's output.
type ResponseFormat string

const (
	// ResponseFormatText requests plain text output (default).
	ResponseFormatText ResponseFormat = "text"
	// ResponseFormatJSON requests a JSON object response.
	ResponseFormatJSON ResponseFormat = "json"
)

// ResponseSchema describes a JSON Schema the response must conform to.
type ResponseSchema struct {
	// Name identifies the schema (required by some providers).
	Name string
	// Description explains the schema's purpose.
	Description string
	// Schema is the JSON Schema definition.
	Schema json.RawMessage
}

// Options contains configuration for a chat request.
type Options struct {
	// Model is the model reference ("provider:model" or a bare model name).
	Model string
	// MaxTokens limits the number of tokens to generate.
	MaxTokens int
	// Temperature is the sampling temperature (0.0 to 2.0). Nil means provider default.
	Temperature *float64
	// Tools the model may call during the request.
	Tools []Tool
	// ToolChoice controls how the model uses tools.
	ToolChoice ToolChoice
	// ResponseFormat requests plain text or JSON output.
	ResponseFormat ResponseFormat
	// ResponseSchema constrains JSON output to a schema. Implies JSON output.
	ResponseSchema *ResponseSchema
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model reference to use for the request.
func WithModel(ref string) Option {
	return func(o *Options) {
		o.Model = ref
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTools sets the tools available to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice controls whether the model must, may, or must not use tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// WithJSONResponse requests a JSON object response without a schema.
func WithJSONResponse() Option {
	return func(o *Options) {
		o.ResponseFormat = ResponseFormatJSON
	}
}

// WithResponseSchema requests a JSON response conforming to the given schema.
func WithResponseSchema(schema *ResponseSchema) Option {
	return func(o *Options) {
		o.ResponseSchema = schema
		o.ResponseFormat = ResponseFormatJSON
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
