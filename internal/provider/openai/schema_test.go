package openai

import (
	"encoding/json"
	"testing"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchemaFormatStrict(t *testing.T) {
	schema := &ai.ResponseSchema{
		Name: "person",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"address": {
					"type": "object",
					"properties": {"city": {"type": "string"}}
				}
			}
		}`),
	}

	format := buildSchemaFormat(schema)
	require.NotNil(t, format.OfJSONSchema)
	assert.Equal(t, "person", format.OfJSONSchema.JSONSchema.Name)

	schemaMap := format.OfJSONSchema.JSONSchema.Schema.(map[string]any)
	assert.Equal(t, false, schemaMap["additionalProperties"])

	nested := schemaMap["properties"].(map[string]any)["address"].(map[string]any)
	assert.Equal(t, false, nested["additionalProperties"])
}

func TestBuildSchemaFormatDefaultName(t *testing.T) {
	format := buildSchemaFormat(&ai.ResponseSchema{
		Schema: json.RawMessage(`{"type":"object"}`),
	})
	assert.Equal(t, "response_schema", format.OfJSONSchema.JSONSchema.Name)
}

func TestCategorizeStatusCode(t *testing.T) {
	assert.Equal(t, ai.ErrorTransient, categorizeStatusCode(429))
	assert.Equal(t, ai.ErrorTransient, categorizeStatusCode(503))
	assert.Equal(t, ai.ErrorPermanent, categorizeStatusCode(401))
	assert.Equal(t, ai.ErrorUserInput, categorizeStatusCode(400))
	assert.Equal(t, ai.ErrorUserInput, categorizeStatusCode(404))
	assert.Equal(t, ai.ErrorPermanent, categorizeStatusCode(418))
}
