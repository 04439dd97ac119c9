package anthropic

import (
	"testing"

	ai "github.com/spetersoncode/llmbridge"
	"github.com/stretchr/testify/assert"
)

func TestConvertMessagesSplitsSystem(t *testing.T) {
	msgs, system := convertMessages([]ai.Message{
		{Role: ai.RoleSystem, Content: "be brief"},
		{Role: ai.RoleUser, Content: "hello"},
		{Role: ai.RoleAssistant, Content: "hi"},
	})

	assert.Len(t, system, 1)
	assert.Equal(t, "be brief", system[0].Text)
	assert.Len(t, msgs, 2)
}

func TestConvertMessagesSkipsEmpty(t *testing.T) {
	msgs, system := convertMessages([]ai.Message{
		{Role: ai.RoleSystem, Content: ""},
		{Role: ai.RoleUser, Content: ""},
	})

	assert.Empty(t, system)
	assert.Empty(t, msgs)
}

func TestConvertMessagesToolResultsAsUser(t *testing.T) {
	msgs, _ := convertMessages([]ai.Message{
		{
			Role: ai.RoleTool,
			ToolResults: []ai.ToolResult{
				{ToolCallID: "call_1", Content: `{"ok":true}`},
			},
		},
	})

	assert.Len(t, msgs, 1)
	assert.Equal(t, "user", string(msgs[0].Role))
}

func TestBuildJSONToolDefaults(t *testing.T) {
	tool, choice := buildJSONTool(&ai.Options{ResponseFormat: ai.ResponseFormatJSON})

	assert.Equal(t, jsonResponseToolName, tool.OfTool.Name)
	assert.Equal(t, jsonResponseToolName, choice.OfTool.Name)
}
