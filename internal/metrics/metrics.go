// Package metrics provides prometheus instrumentation for sandbot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry      prometheus.Registerer
	ipcWrites     *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	llmRequests   *prometheus.CounterVec
	loopRounds    prometheus.Counter
	loopCompleted *prometheus.CounterVec
}

// Init registers sandbot metrics on the given registerer. A nil registerer
// selects the default one.
func Init(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		ipcWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ipc_writes_total",
				Help:      "Total number of IPC payloads written, by payload type",
			},
			[]string{"type"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool executions, by tool and status",
			},
			[]string{"tool", "status"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_duration_seconds",
				Help:      "Duration of tool executions",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"tool"},
		),
		llmRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Total number of chat-completion requests, by status",
			},
			[]string{"status"},
		),
		loopRounds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loop_rounds_total",
				Help:      "Total number of agent loop rounds executed",
			},
		),
		loopCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loop_completions_total",
				Help:      "Total number of agent loop terminations, by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.ipcWrites,
		m.toolCalls,
		m.toolDuration,
		m.llmRequests,
		m.loopRounds,
		m.loopCompleted,
	)

	return m
}

// RecordIPCWrite counts one IPC payload write. Safe on a nil receiver.
func (m *Metrics) RecordIPCWrite(payloadType string) {
	if m == nil {
		return
	}
	m.ipcWrites.WithLabelValues(payloadType).Inc()
}

// RecordToolCall counts one tool execution. Safe on a nil receiver.
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordLLMRequest counts one chat-completion request. Safe on a nil receiver.
func (m *Metrics) RecordLLMRequest(status string) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(status).Inc()
}

// RecordLoopRound counts one agent loop round. Safe on a nil receiver.
func (m *Metrics) RecordLoopRound() {
	if m == nil {
		return
	}
	m.loopRounds.Inc()
}

// RecordLoopCompletion counts one loop termination. Safe on a nil receiver.
func (m *Metrics) RecordLoopCompletion(outcome string) {
	if m == nil {
		return
	}
	m.loopCompleted.WithLabelValues(outcome).Inc()
}
