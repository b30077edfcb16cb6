package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_CodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "json tagged block",
			response: "Here is the result:\n```json\n{\"decision\": \"SAFE\"}\n```\nDone.",
			expected: `{"decision": "SAFE"}`,
		},
		{
			name:     "untagged block",
			response: "```\n{\"decision\": \"HARMFUL\"}\n```",
			expected: `{"decision": "HARMFUL"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.response)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, got)
		})
	}
}

func TestExtractJSON_SkipsNonJSONBlocks(t *testing.T) {
	response := "```python\nprint('hi')\n```\n{\"decision\": \"SAFE\", \"reason\": \"ok\"}"

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision": "SAFE", "reason": "ok"}`, got)
}

func TestExtractJSON_RawObjectWithSurroundingText(t *testing.T) {
	response := `The verdict is: {"decision": "SAFE", "reason": "no policy violated"} as requested.`

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision": "SAFE", "reason": "no policy violated"}`, got)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	response := `{"outer": {"inner": "value with } in string"}}`

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, got)
}

func TestExtractJSON_RepairsMalformedJSON(t *testing.T) {
	// Trailing comma is invalid JSON but repairable.
	response := `{"decision": "SAFE", "reason": "fine",}`

	got, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision": "SAFE", "reason": "fine"}`, got)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I cannot comply with that request.")
	assert.Error(t, err)
}

func TestExtractJSONAs(t *testing.T) {
	type verdict struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
	}

	got, err := ExtractJSONAs[verdict]("```json\n{\"decision\": \"HARMFUL\", \"reason\": \"violates policy 2.2\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "HARMFUL", got.Decision)
	assert.Equal(t, "violates policy 2.2", got.Reason)
}

func TestExtractJSONAs_TypeMismatch(t *testing.T) {
	type verdict struct {
		Decision []string `json:"decision"`
	}

	_, err := ExtractJSONAs[verdict](`{"decision": "SAFE"}`)
	assert.Error(t, err)
}
