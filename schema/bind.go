package schema

import (
	ai "github.com/spetersoncode/llmbridge"
)

// Response builds a ResponseSchema for structured output requests.
func Response(name, description string, b Builder) (*ai.ResponseSchema, error) {
	raw, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &ai.ResponseSchema{
		Name:        name,
		Description: description,
		Schema:      raw,
	}, nil
}

// MustResponse is like Response but panics on error. Intended for schemas
// defined at package init time.
func MustResponse(name, description string, b Builder) *ai.ResponseSchema {
	r, err := Response(name, description, b)
	if err != nil {
		panic(err)
	}
	return r
}

// Tool builds a tool definition with the given parameter schema.
func Tool(name, description string, params Builder) (ai.Tool, error) {
	raw, err := params.Build()
	if err != nil {
		return ai.Tool{}, err
	}
	return ai.Tool{
		Name:        name,
		Description: description,
		Parameters:  raw,
	}, nil
}

// MustTool is like Tool but panics on error.
func MustTool(name, description string, params Builder) ai.Tool {
	t, err := Tool(name, description, params)
	if err != nil {
		panic(err)
	}
	return t
}
