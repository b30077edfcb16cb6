package guardrail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampart-ai/rampart/internal/llm"
	"github.com/rampart-ai/rampart/internal/llm/providers"
	"github.com/rampart-ai/rampart/internal/policy"
)

func testContext() AssembledContext {
	return AssembledContext{
		Text: "Source: sales-conduct.txt\nNever guarantee investment returns to customers.",
		Documents: []policy.Document{
			{ID: "sales-001", Content: "Never guarantee investment returns to customers.", RoleTag: "sales", Source: "sales-conduct.txt"},
		},
		EstimatedTokens: 25,
	}
}

func TestJudgeSafeResponse(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		`{"decision": "SAFE", "reason": "The text is a general product inquiry.", "source_files": ["sales-conduct.txt"]}`,
	})
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	verdict := judge.Judge(context.Background(), "what products do you offer?", testContext())

	assert.Equal(t, DecisionSafe, verdict.Decision)
	assert.Equal(t, "The text is a general product inquiry.", verdict.Reason)
	assert.Equal(t, []string{"sales-001"}, verdict.Citations)
}

func TestJudgeHarmfulResponse(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		`{"decision": "HARMFUL", "reason": "The text guarantees investment returns.", "source_files": ["sales-conduct.txt"]}`,
	})
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	verdict := judge.Judge(context.Background(), "I guarantee a 100% return", testContext())

	assert.Equal(t, DecisionHarmful, verdict.Decision)
	assert.Equal(t, []string{"sales-001"}, verdict.Citations)
}

func TestJudgeParsesMarkdownWrappedJSON(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		"Here is my analysis:\n```json\n{\"decision\": \"SAFE\", \"reason\": \"no violation\", \"source_files\": []}\n```",
	})
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	verdict := judge.Judge(context.Background(), "hello", testContext())

	assert.Equal(t, DecisionSafe, verdict.Decision)
	assert.Empty(t, verdict.Citations)
}

func TestJudgeKeepsUnknownCitationsVerbatim(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		`{"decision": "HARMFUL", "reason": "violation", "source_files": ["sales-conduct.txt", "hallucinated.txt"]}`,
	})
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	verdict := judge.Judge(context.Background(), "text", testContext())

	assert.Equal(t, []string{"sales-001", "hallucinated.txt"}, verdict.Citations)
}

func TestJudgeTransportFailure(t *testing.T) {
	provider := providers.NewMockProvider(nil).WithError(errors.New("connection refused"))
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	verdict := judge.Judge(context.Background(), "text", testContext())

	assert.Equal(t, DecisionError, verdict.Decision)
	assert.Equal(t, ReasonJudgeUnavailable, verdict.Reason)
}

func TestJudgeUnparseableResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "no JSON at all", response: "I think this text is probably fine."},
		{name: "wrong schema type", response: `{"decision": 42}`},
		{name: "unknown decision value", response: `{"decision": "MAYBE", "reason": "unsure", "source_files": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := providers.NewMockProvider([]string{tt.response})
			judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

			verdict := judge.Judge(context.Background(), "text", testContext())

			assert.Equal(t, DecisionError, verdict.Decision)
			assert.Equal(t, ReasonUnparseable, verdict.Reason)
		})
	}
}

func TestJudgeRecordsElapsedOnFailure(t *testing.T) {
	provider := providers.NewMockProvider(nil).WithError(errors.New("boom"))
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	verdict := judge.Judge(context.Background(), "text", testContext())
	assert.Greater(t, verdict.Elapsed, time.Duration(0))
}

func TestJudgeSendsContextAndCandidate(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		`{"decision": "SAFE", "reason": "ok", "source_files": []}`,
	})
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	judge.Judge(context.Background(), "candidate text here", testContext())

	calls := provider.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Request.Messages, 2)
	assert.Equal(t, llm.RoleSystem, calls[0].Request.Messages[0].Role)

	user := calls[0].Request.Messages[1].Content
	assert.Contains(t, user, "Never guarantee investment returns")
	assert.Contains(t, user, "candidate text here")
}

func TestJudgeEmptyContextPlaceholder(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		`{"decision": "SAFE", "reason": "no policies apply", "source_files": []}`,
	})
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)

	judge.Judge(context.Background(), "text", AssembledContext{})

	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Request.Messages[1].Content, "(no policy documents retrieved)")
}
