package guardrail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampart-ai/rampart/internal/llm/providers"
	"github.com/rampart-ai/rampart/internal/policy"
)

// cannedRetriever returns a fixed result or error for every query.
type cannedRetriever struct {
	result policy.RetrievalResult
	err    error

	lastQuery string
	lastRole  string
	lastLimit int
}

func (r *cannedRetriever) Retrieve(ctx context.Context, query, role string, limit int) (policy.RetrievalResult, error) {
	r.lastQuery = query
	r.lastRole = role
	r.lastLimit = limit
	if r.err != nil {
		return policy.RetrievalResult{}, r.err
	}
	return r.result, nil
}

func salesResult() policy.RetrievalResult {
	return policy.RetrievalResult{Documents: []policy.ScoredDocument{
		{
			Document: policy.Document{
				ID:      "sales-001",
				Content: "Never guarantee investment returns to customers.",
				RoleTag: "sales",
				Source:  "sales-conduct.txt",
			},
			Score: 0.92,
		},
	}}
}

func newTestEngine(retriever Retriever, responses []string) *Engine {
	provider := providers.NewMockProvider(responses)
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)
	return NewEngine(retriever, NewAssembler(2000), judge, 3, nil)
}

func TestEngineHarmfulWithCitation(t *testing.T) {
	retriever := &cannedRetriever{result: salesResult()}
	engine := newTestEngine(retriever, []string{
		`{"decision": "HARMFUL", "reason": "The text guarantees a 100% investment return, which the sales conduct policy forbids.", "source_files": ["sales-conduct.txt"]}`,
	})

	verdict := engine.Evaluate(context.Background(), "I guarantee a 100% investment return", "sales")

	assert.Equal(t, DecisionHarmful, verdict.Decision)
	assert.Equal(t, []string{"sales-001"}, verdict.Citations)
	assert.Equal(t, "sales", retriever.lastRole)
	assert.Equal(t, 3, retriever.lastLimit)
}

func TestEngineSafe(t *testing.T) {
	retriever := &cannedRetriever{result: salesResult()}
	engine := newTestEngine(retriever, []string{
		`{"decision": "SAFE", "reason": "General inquiry, no policy violated.", "source_files": ["sales-conduct.txt"]}`,
	})

	verdict := engine.Evaluate(context.Background(), "what are your opening hours?", "sales")

	assert.True(t, verdict.IsSafe())
	assert.Greater(t, verdict.Elapsed, time.Duration(0))
}

func TestEngineDegradesOnRetrievalFailure(t *testing.T) {
	retriever := &cannedRetriever{err: errors.New("search backend down")}
	engine := newTestEngine(retriever, []string{
		`{"decision": "SAFE", "reason": "no policies apply", "source_files": []}`,
	})

	verdict := engine.Evaluate(context.Background(), "hello", "sales")

	// Retrieval failure never fails the evaluation; it degrades to an
	// empty-context judgment and says so on the verdict.
	assert.Equal(t, DecisionSafe, verdict.Decision)
	assert.Contains(t, verdict.Reason, "retrieval degraded, judged without policy context")
}

func TestEngineErrorVerdictOnJudgeFailure(t *testing.T) {
	retriever := &cannedRetriever{result: salesResult()}
	provider := providers.NewMockProvider(nil).WithError(errors.New("timeout"))
	judge := NewJudge(provider, "judge-1", 0, time.Minute, nil)
	engine := NewEngine(retriever, NewAssembler(2000), judge, 3, nil)

	verdict := engine.Evaluate(context.Background(), "text", "sales")

	require.Equal(t, DecisionError, verdict.Decision)
	assert.False(t, verdict.IsSafe())
}

func TestEngineQueryIsCandidateText(t *testing.T) {
	retriever := &cannedRetriever{result: salesResult()}
	engine := newTestEngine(retriever, []string{
		`{"decision": "SAFE", "reason": "ok", "source_files": []}`,
	})

	engine.Evaluate(context.Background(), "wire transfer limits", "support")

	assert.Equal(t, "wire transfer limits", retriever.lastQuery)
}
