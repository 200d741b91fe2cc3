// Package loop implements the bounded tool-calling agent loop. One
// invocation drives the model through at most MaxRounds chat-completion
// rounds, executing requested tool calls in order between rounds, and
// persists the conversation only when the invocation completes.
package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/aatumaykin/sandbot/internal/agent/session"
	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/llm"
	"github.com/aatumaykin/sandbot/internal/logger"
	"github.com/aatumaykin/sandbot/internal/metrics"
	"github.com/aatumaykin/sandbot/internal/tools"
	"github.com/aatumaykin/sandbot/internal/workspace"
)

// ErrRoundBudget is returned when the model is still requesting tool
// calls after the last allowed round. The invocation is aborted and the
// session is not persisted.
var ErrRoundBudget = errors.New("agent loop exceeded round budget")

// scheduledMarker prefixes prompts that originate from the host
// scheduler rather than a live user, so the model knows nobody is
// waiting on an interactive reply.
const scheduledMarker = "[scheduled task - no user is present]"

// Loop runs agent invocations against one provider and tool registry.
type Loop struct {
	provider  llm.Provider
	registry  *tools.Registry
	sessions  *session.Manager
	bootstrap *workspace.BootstrapLoader
	cfg       config.AgentConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// Params describes one agent invocation.
type Params struct {
	SessionID string
	Prompt    string

	// Scheduled marks invocations fired by the host scheduler; the
	// prompt is prefixed with an unattended-run marker.
	Scheduled bool
}

// Result is the outcome of a completed invocation.
type Result struct {
	FinalText string
	Rounds    int
	ToolCalls int
	Usage     llm.Usage
}

// New creates a Loop.
func New(provider llm.Provider, registry *tools.Registry, sessions *session.Manager,
	bootstrap *workspace.BootstrapLoader, cfg config.AgentConfig,
	log *logger.Logger, m *metrics.Metrics) *Loop {
	return &Loop{
		provider:  provider,
		registry:  registry,
		sessions:  sessions,
		bootstrap: bootstrap,
		cfg:       cfg,
		logger:    log,
		metrics:   m,
	}
}

// Run executes one invocation to completion. The model is called
// iteratively: each round either ends the invocation with a text reply or
// requests tool calls, whose results are appended as tool turns for the
// next round. On success the full history is saved under the session id;
// an aborted invocation leaves the persisted session untouched.
func (l *Loop) Run(ctx context.Context, p Params) (*Result, error) {
	if p.Prompt == "" {
		return nil, fmt.Errorf("prompt is empty")
	}
	if p.SessionID == "" {
		return nil, fmt.Errorf("session id is empty")
	}

	messages, err := l.sessions.Load(p.SessionID)
	if err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		if system := l.bootstrap.Assemble(); system != "" {
			messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
		}
	}

	prompt := p.Prompt
	if p.Scheduled {
		prompt = scheduledMarker + "\n\n" + prompt
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	maxRounds := l.cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = config.DefaultMaxRounds
	}

	var toolSchema []llm.ToolDefinition
	if l.provider.SupportsToolCalling() {
		toolSchema = l.toolSchema()
	}

	result := &Result{}
	for round := 1; round <= maxRounds; round++ {
		result.Rounds = round
		l.metrics.RecordLoopRound()

		l.logger.DebugCtx(ctx, "agent round",
			logger.Field{Key: "session_id", Value: p.SessionID},
			logger.Field{Key: "round", Value: round},
			logger.Field{Key: "messages", Value: len(messages)})

		resp, err := l.provider.Chat(ctx, llm.ChatRequest{
			Messages:    messages,
			Model:       l.cfg.Model,
			Temperature: l.cfg.Temperature,
			MaxTokens:   l.cfg.MaxTokens,
			Tools:       toolSchema,
		})
		if err != nil {
			l.metrics.RecordLLMRequest("error")
			l.metrics.RecordLoopCompletion("error")
			return nil, fmt.Errorf("chat completion failed on round %d: %w", round, err)
		}
		l.metrics.RecordLLMRequest("ok")

		result.Usage.PromptTokens += resp.Usage.PromptTokens
		result.Usage.CompletionTokens += resp.Usage.CompletionTokens
		result.Usage.TotalTokens += resp.Usage.TotalTokens

		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{
				Role:    llm.RoleAssistant,
				Content: resp.Content,
			})
			result.FinalText = resp.Content

			if err := l.sessions.Save(p.SessionID, messages); err != nil {
				return nil, fmt.Errorf("failed to persist session: %w", err)
			}
			l.metrics.RecordLoopCompletion("ok")
			return result, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		results := l.executeToolCalls(ctx, resp.ToolCalls)
		result.ToolCalls += len(results)
		for _, tr := range results {
			messages = append(messages, toolResultMessage(tr))
		}
	}

	l.metrics.RecordLoopCompletion("round_budget")
	return nil, fmt.Errorf("%w after %d rounds", ErrRoundBudget, maxRounds)
}

// toolSchema converts the registry catalog into request tool definitions.
func (l *Loop) toolSchema() []llm.ToolDefinition {
	schemas := l.registry.ToSchema()
	defs := make([]llm.ToolDefinition, 0, len(schemas))
	for _, s := range schemas {
		defs = append(defs, llm.ToolDefinition{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.Parameters,
		})
	}
	return defs
}

// toolResultMessage renders one tool result as a tool turn. Failed
// executions become an error-prefixed content body so the model can react
// instead of the loop aborting.
func toolResultMessage(tr tools.ToolResult) llm.Message {
	content := tr.Content
	if tr.Error != "" {
		content = "Error: " + tr.Error
	}
	return llm.Message{
		Role:       llm.RoleTool,
		Content:    content,
		ToolCallID: tr.ToolCallID,
	}
}
