package llm

import (
	"bytes"
	stdcontext "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/logger"
	"github.com/aatumaykin/sandbot/internal/retry"
)

const (
	// openAIRequestTimeout is the default timeout for completion requests.
	openAIRequestTimeout = 120 * time.Second
	// openAIMaxRetries is the maximum number of attempts per request.
	openAIMaxRetries = 3
)

// OpenAIConfig contains configuration for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey         string `json:"api_key"`
	BaseURL        string `json:"base_url"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// OpenAIProvider implements Provider against any endpoint that speaks the
// standard chat-completions protocol.
type OpenAIProvider struct {
	client *http.Client
	config OpenAIConfig
	apiURL string
	logger *logger.Logger
}

// chatMessage is the wire form of one conversation message.
type chatMessage struct {
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall  `json:"tool_calls,omitempty"`
}

// wireToolCall is the wire form of a tool call.
type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// wireTool wraps a tool definition in function-calling format.
type wireTool struct {
	Type     string                 `json:"type"`
	Function map[string]interface{} `json:"function"`
}

// chatCompletionRequest is the wire form of a completion request.
type chatCompletionRequest struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Tools       []wireTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
}

// chatCompletionResponse is the wire form of a completion response.
type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []wireChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
	Error   *apiError    `json:"error,omitempty"`
}

type wireChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// httpError carries a non-success HTTP status for retry classification.
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: status=%d, body=%s", e.StatusCode, e.Body)
}

// NewOpenAIProvider creates a provider for the configured endpoint.
func NewOpenAIProvider(cfg OpenAIConfig, log *logger.Logger) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = openAIRequestTimeout
	}

	return &OpenAIProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
		apiURL: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		logger: log,
	}
}

// SupportsToolCalling implements Provider.
func (p *OpenAIProvider) SupportsToolCalling() bool {
	return true
}

// GetDefaultModel implements Provider.
func (p *OpenAIProvider) GetDefaultModel() string {
	return p.config.Model
}

// Chat implements Provider. Transient transport failures (rate limits,
// server errors) are retried with backoff; everything else surfaces
// immediately.
func (p *OpenAIProvider) Chat(ctx stdcontext.Context, req ChatRequest) (*ChatResponse, error) {
	wireReq := p.mapChatRequest(req)
	reqBody, err := json.Marshal(wireReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := retry.Do(ctx, retry.Config{MaxAttempts: openAIMaxRetries}, func() (*chatCompletionResponse, error) {
		return p.doRequest(ctx, reqBody)
	})
	if err != nil {
		return nil, err
	}

	return p.mapChatResponse(resp)
}

// doRequest executes a single HTTP request against the endpoint.
func (p *OpenAIProvider) doRequest(ctx stdcontext.Context, reqBody []byte) (*chatCompletionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.config.APIKey))

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.ErrorCtx(ctx, "completion request failed", err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		p.logger.ErrorCtx(ctx, "completion endpoint returned error status", nil,
			logger.Field{Key: "status_code", Value: httpResp.StatusCode})
		return nil, &httpError{
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s (%s)", resp.Error.Message, resp.Error.Type)
	}

	return &resp, nil
}

// mapChatRequest maps the internal ChatRequest to the wire format.
func (p *OpenAIProvider) mapChatRequest(req ChatRequest) chatCompletionRequest {
	messages := make([]chatMessage, len(req.Messages))
	for i, msg := range req.Messages {
		wire := chatMessage{
			Role:       string(msg.Role),
			ToolCallID: msg.ToolCallID,
		}
		// An assistant tool-call turn may legitimately have empty content;
		// everything else always carries a content string.
		if msg.Content != "" || len(msg.ToolCalls) == 0 {
			wire.Content = encodeContent(msg.Content)
		}
		for _, tc := range msg.ToolCalls {
			var wtc wireToolCall
			wtc.ID = tc.ID
			wtc.Type = "function"
			wtc.Function.Name = tc.Name
			wtc.Function.Arguments = tc.Arguments
			wire.ToolCalls = append(wire.ToolCalls, wtc)
		}
		messages[i] = wire
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	wireReq := chatCompletionRequest{
		Messages:    messages,
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if len(req.Tools) > 0 {
		wireReq.Tools = make([]wireTool, len(req.Tools))
		for i, tool := range req.Tools {
			wireReq.Tools[i] = wireTool{
				Type: "function",
				Function: map[string]interface{}{
					"name":        tool.Name,
					"description": tool.Description,
					"parameters":  tool.Parameters,
				},
			}
		}
		wireReq.ToolChoice = "auto"
	}

	return wireReq
}

// mapChatResponse maps the wire response to the internal format.
func (p *OpenAIProvider) mapChatResponse(resp *chatCompletionResponse) (*ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("malformed response: no choices")
	}

	choice := resp.Choices[0]
	content, err := decodeContent(choice.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("malformed response content: %w", err)
	}

	out := &ChatResponse{
		Content: content,
		Usage:   resp.Usage,
		Model:   resp.Model,
	}

	for _, wtc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        wtc.ID,
			Name:      wtc.Function.Name,
			Arguments: wtc.Function.Arguments,
		})
	}

	switch {
	case len(out.ToolCalls) > 0:
		out.FinishReason = FinishReasonToolCalls
	case choice.FinishReason == "length":
		out.FinishReason = FinishReasonLength
	default:
		out.FinishReason = FinishReasonStop
	}

	return out, nil
}

func encodeContent(content string) json.RawMessage {
	data, _ := json.Marshal(content)
	return data
}

// decodeContent accepts both content encodings the protocol allows: a
// plain string, or a sequence of typed text fragments which are
// concatenated in order.
func decodeContent(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var fragments []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &fragments); err != nil {
		return "", fmt.Errorf("content is neither string nor fragment list")
	}

	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Text)
	}
	return b.String(), nil
}
