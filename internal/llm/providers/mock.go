package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rampart-ai/rampart/internal/llm"
	"github.com/rampart-ai/rampart/internal/types"
)

// MockCall represents a recorded call to the mock provider
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements llm.Provider for testing. It replays configured
// responses in order (cycling when exhausted) and records every request.
type MockProvider struct {
	mu            sync.RWMutex
	responses     []string
	responseIndex int
	calls         []MockCall
	err           error
	completeFn    func(req llm.CompletionRequest) (string, error)
}

// NewMockProvider creates a new mock provider replaying the given responses.
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{
		responses: responses,
		calls:     make([]MockCall, 0),
	}
}

// WithError makes every call fail with err.
func (p *MockProvider) WithError(err error) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return p
}

// WithCompleteFunc routes completions through fn instead of the response list.
func (p *MockProvider) WithCompleteFunc(fn func(req llm.CompletionRequest) (string, error)) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completeFn = fn
	return p
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete generates a completion
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, llm.NewInvalidRequestError(err.Error())
	}

	if err := ctx.Err(); err != nil {
		return nil, llm.TranslateError("mock", err)
	}

	p.mu.Lock()
	p.calls = append(p.calls, MockCall{Request: req})
	err := p.err
	fn := p.completeFn

	var response string
	if err == nil && fn == nil {
		if len(p.responses) == 0 {
			p.mu.Unlock()
			return nil, llm.NewProviderError("mock", fmt.Errorf("no responses configured"))
		}
		response = p.responses[p.responseIndex%len(p.responses)]
		p.responseIndex++
	}
	p.mu.Unlock()

	if err != nil {
		return nil, llm.TranslateError("mock", err)
	}

	if fn != nil {
		response, err = fn(req)
		if err != nil {
			return nil, llm.TranslateError("mock", err)
		}
	}

	return &llm.CompletionResponse{
		ID:           uuid.New().String(),
		Model:        req.Model,
		Message:      llm.NewAssistantMessage(response),
		FinishReason: llm.FinishReasonStop,
		Usage: llm.TokenUsage{
			PromptTokens:     10,
			CompletionTokens: len(response) / 4,
			TotalTokens:      10 + len(response)/4,
		},
	}, nil
}

// Stream streams the next configured response in fixed-size chunks.
func (p *MockProvider) Stream(ctx context.Context, req llm.CompletionRequest) (<-chan llm.StreamChunk, error) {
	resp, err := p.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	chunkChan := make(chan llm.StreamChunk, 10)
	go func() {
		defer close(chunkChan)
		content := resp.Message.Content
		const size = 16
		for i := 0; i < len(content); i += size {
			end := i + size
			if end > len(content) {
				end = len(content)
			}
			select {
			case <-ctx.Done():
				chunkChan <- llm.StreamChunk{FinishReason: llm.FinishReasonError, Err: ctx.Err()}
				return
			case chunkChan <- llm.StreamChunk{Content: content[i:end]}:
			}
		}
		chunkChan <- llm.StreamChunk{FinishReason: llm.FinishReasonStop}
	}()

	return chunkChan, nil
}

// Health reports the mock as always healthy.
func (p *MockProvider) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("mock provider")
}

// Calls returns a copy of the recorded calls.
func (p *MockProvider) Calls() []MockCall {
	p.mu.RLock()
	defer p.mu.RUnlock()
	calls := make([]MockCall, len(p.calls))
	copy(calls, p.calls)
	return calls
}

// CallCount returns the number of recorded calls.
func (p *MockProvider) CallCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.calls)
}
