package loop

import (
	"context"
	"time"

	"github.com/aatumaykin/sandbot/internal/llm"
	"github.com/aatumaykin/sandbot/internal/logger"
	"github.com/aatumaykin/sandbot/internal/tools"
)

// executeToolCalls runs the requested calls strictly in request order and
// returns one result per call. An unknown tool or a failing execution
// produces a synthetic error result; it never aborts the invocation.
func (l *Loop) executeToolCalls(ctx context.Context, calls []llm.ToolCall) []tools.ToolResult {
	results := make([]tools.ToolResult, 0, len(calls))
	for _, call := range calls {
		start := time.Now()
		tr := tools.ExecuteToolCall(ctx, l.registry, tools.ToolCall{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: call.Arguments,
		})
		elapsed := time.Since(start)

		status := "ok"
		if tr.Error != "" {
			status = "error"
			l.logger.WarnCtx(ctx, "tool call failed",
				logger.Field{Key: "tool", Value: call.Name},
				logger.Field{Key: "error", Value: tr.Error})
		} else {
			l.logger.DebugCtx(ctx, "tool call completed",
				logger.Field{Key: "tool", Value: call.Name},
				logger.Field{Key: "duration", Value: elapsed.String()})
		}
		l.metrics.RecordToolCall(call.Name, status, elapsed)

		results = append(results, tr)
	}
	return results
}
