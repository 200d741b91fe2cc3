package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/sandbot/internal/agent/loop"
	"github.com/aatumaykin/sandbot/internal/agent/session"
	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/ipc"
	"github.com/aatumaykin/sandbot/internal/llm"
	"github.com/aatumaykin/sandbot/internal/logger"
	"github.com/aatumaykin/sandbot/internal/metrics"
	"github.com/aatumaykin/sandbot/internal/tools"
	"github.com/aatumaykin/sandbot/internal/tools/fetch"
	"github.com/aatumaykin/sandbot/internal/tools/file"
	"github.com/aatumaykin/sandbot/internal/tools/host"
	"github.com/aatumaykin/sandbot/internal/version"
	"github.com/aatumaykin/sandbot/internal/workspace"
)

var (
	runConfigPath string
	runSessionID  string
	runScheduled  bool
	runDebug      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Run one agent invocation",
	Long: `Run one agent invocation: load the session, drive the model through
tool-calling rounds and print the final reply. The prompt is taken from the
argument, or from stdin when omitted.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadOptional(runConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if runDebug {
		cfg.Logging.Level = "debug"
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation failed:\n")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	prompt, err := resolvePrompt(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	log.Info(version.FormatStartupMessage(),
		logger.Field{Key: "workspace", Value: cfg.Workspace.Path},
		logger.Field{Key: "folder", Value: cfg.Identity.Folder},
		logger.Field{Key: "api_key", Value: config.MaskSecret(cfg.LLM.APIKey)})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l, err := buildLoop(cfg, log)
	if err != nil {
		log.Error("Failed to initialize agent", err)
		os.Exit(1)
	}

	sessionID := runSessionID
	if sessionID == "" {
		sessionID = cfg.Identity.ConversationID
	}

	result, err := l.Run(ctx, loop.Params{
		SessionID: sessionID,
		Prompt:    prompt,
		Scheduled: runScheduled,
	})
	if err != nil {
		if errors.Is(err, loop.ErrRoundBudget) {
			log.Error("Agent stopped: round budget exhausted", err,
				logger.Field{Key: "session_id", Value: sessionID})
		} else {
			log.Error("Agent invocation failed", err,
				logger.Field{Key: "session_id", Value: sessionID})
		}
		os.Exit(1)
	}

	log.Info("Agent invocation completed",
		logger.Field{Key: "session_id", Value: sessionID},
		logger.Field{Key: "rounds", Value: result.Rounds},
		logger.Field{Key: "tool_calls", Value: result.ToolCalls},
		logger.Field{Key: "total_tokens", Value: result.Usage.TotalTokens})

	fmt.Println(result.FinalText)
}

// resolvePrompt takes the prompt from the argument or reads it from stdin.
func resolvePrompt(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("no prompt argument and failed to read stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt is empty")
	}
	return prompt, nil
}

// buildLoop wires the workspace, tools, provider and session store into an
// agent loop.
func buildLoop(cfg *config.Config, log *logger.Logger) (*loop.Loop, error) {
	ws := workspace.New(cfg.Workspace)
	if err := ws.EnsureDir(); err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(ws)
	if err != nil {
		return nil, err
	}

	m := metrics.Init("sandbot", nil)

	identity := ipc.Identity{
		Folder:         cfg.Identity.Folder,
		ConversationID: cfg.Identity.ConversationID,
		Privileged:     cfg.Identity.Privileged(),
	}
	emitter := ipc.NewEmitter(workspace.ExpandHome(cfg.IPC.Dir), identity, log, m)
	snapshots := ipc.NewSnapshotReader(emitter.SnapshotPath())

	registry := tools.NewRegistry()
	for _, t := range []tools.Tool{
		file.NewReadFileTool(ws),
		file.NewWriteFileTool(ws),
		file.NewEditFileTool(ws),
		file.NewGlobFilesTool(ws),
		file.NewGrepFilesTool(ws),
		tools.NewShellExecTool(ws.Path(), cfg.Tools.Shell, log),
		fetch.NewWebFetchTool(cfg.Tools.Fetch, log),
		fetch.NewWebSearchTool(),
		host.NewSendMessageTool(emitter),
		host.NewScheduleTaskTool(emitter),
		host.NewTaskControlTool(emitter),
		host.NewListTasksTool(snapshots, identity),
		host.NewRegisterGroupTool(emitter),
	} {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}

	provider := llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.Agent.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, log)

	bootstrap := workspace.NewBootstrapLoader(ws, 0, func(format string, args ...interface{}) {
		log.Warn(fmt.Sprintf(format, args...))
	})

	return loop.New(provider, registry, sessions, bootstrap, cfg.Agent, log, m), nil
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "config.toml", "Path to configuration file")
	runCmd.Flags().StringVarP(&runSessionID, "session", "s", "", "Session id (default: the conversation id)")
	runCmd.Flags().BoolVar(&runScheduled, "scheduled", false, "Mark this invocation as fired by the host scheduler")
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Enable debug logging")
}
