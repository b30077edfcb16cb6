package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampart-ai/rampart/internal/llm"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "anthropic"})
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.NewProviderNotFoundError(""))
}

func TestNewMockDefault(t *testing.T) {
	p, err := New(Config{Provider: "mock", Model: "judge-1"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Model:    "judge-1",
		Messages: []llm.Message{llm.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Message.Content, `"decision"`)
}

func TestMockProviderCyclesResponses(t *testing.T) {
	p := NewMockProvider([]string{"one", "two"})

	for _, want := range []string{"one", "two", "one"} {
		resp, err := p.Complete(context.Background(), llm.CompletionRequest{
			Messages: []llm.Message{llm.NewUserMessage("x")},
		})
		require.NoError(t, err)
		assert.Equal(t, want, resp.Message.Content)
	}
	assert.Equal(t, 3, p.CallCount())
}

func TestMockProviderWithError(t *testing.T) {
	p := NewMockProvider(nil).WithError(errors.New("connection refused"))

	_, err := p.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{llm.NewUserMessage("x")},
	})
	require.Error(t, err)
	assert.True(t, llm.IsRetryable(err))
}

func TestMockProviderRejectsInvalidRequest(t *testing.T) {
	p := NewMockProvider([]string{"ok"})

	tests := []struct {
		name string
		req  llm.CompletionRequest
	}{
		{
			name: "no messages",
			req:  llm.CompletionRequest{Model: "m"},
		},
		{
			name: "empty message content",
			req: llm.CompletionRequest{
				Messages: []llm.Message{{Role: llm.RoleUser}},
			},
		},
		{
			name: "temperature out of range",
			req: llm.CompletionRequest{
				Messages:    []llm.Message{llm.NewUserMessage("x")},
				Temperature: 1.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Complete(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, llm.NewInvalidRequestError(""))
		})
	}
	assert.Zero(t, p.CallCount(), "invalid requests must be rejected before dispatch")
}

func TestMockProviderHealth(t *testing.T) {
	p := NewMockProvider([]string{"ok"})
	health := p.Health(context.Background())
	assert.True(t, health.IsHealthy())
}

func TestMockProviderStream(t *testing.T) {
	p := NewMockProvider([]string{"a streamed response that spans multiple chunks"})

	ch, err := p.Stream(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{llm.NewUserMessage("x")},
	})
	require.NoError(t, err)

	var content string
	var finish llm.FinishReason
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		content += chunk.Content
		if chunk.FinishReason != "" {
			finish = chunk.FinishReason
		}
	}
	assert.Equal(t, "a streamed response that spans multiple chunks", content)
	assert.Equal(t, llm.FinishReasonStop, finish)
}
