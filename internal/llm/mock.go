package llm

import (
	"context"
	"fmt"
)

// MockProvider is a scripted implementation of the Provider interface for
// tests. It replays a fixed sequence of responses, one per Chat call, and
// records every request it receives.
type MockProvider struct {
	responses []*ChatResponse
	index     int
	err       error

	// Requests holds every ChatRequest passed to Chat, in order.
	Requests []ChatRequest
}

// NewMockProvider creates a provider that replays the given responses in
// order. When the script runs out, the last response is repeated.
func NewMockProvider(responses ...*ChatResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewErrorProvider creates a provider whose Chat always fails.
func NewErrorProvider(err error) *MockProvider {
	return &MockProvider{err: err}
}

// TextResponse builds a plain-text completion response.
func TextResponse(content string) *ChatResponse {
	return &ChatResponse{
		Content:      content,
		FinishReason: FinishReasonStop,
	}
}

// ToolCallResponse builds a completion response requesting tool calls.
func ToolCallResponse(calls ...ToolCall) *ChatResponse {
	return &ChatResponse{
		FinishReason: FinishReasonToolCalls,
		ToolCalls:    calls,
	}
}

// Chat implements Provider.
func (m *MockProvider) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	m.Requests = append(m.Requests, req)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock provider has no scripted responses")
	}

	resp := m.responses[m.index]
	if m.index < len(m.responses)-1 {
		m.index++
	}
	return resp, nil
}

// SupportsToolCalling implements Provider.
func (m *MockProvider) SupportsToolCalling() bool {
	return true
}

// GetDefaultModel implements Provider.
func (m *MockProvider) GetDefaultModel() string {
	return "mock"
}

// CallCount returns the number of Chat invocations so far.
func (m *MockProvider) CallCount() int {
	return len(m.Requests)
}
