package config

const (
	// DefaultModel is used when neither the config file nor the
	// environment names a model.
	DefaultModel = "gpt-4o-mini"

	// DefaultBaseURL is the default chat-completions endpoint root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultMaxRounds caps the agent loop when the config leaves
	// max_rounds unset.
	DefaultMaxRounds = 30

	defaultMaxTokens        = 4096
	defaultTemperature      = 0.7
	defaultLLMTimeoutSec    = 120
	defaultShellTimeoutSec  = 60
	defaultShellOutputBytes = 64 * 1024
	defaultFetchTimeoutSec  = 30
	defaultFetchMaxBytes    = 100 * 1024
	defaultUserAgent        = "sandbot/1.0"
)

// applyDefaults fills in zero-valued fields with defaults.
func applyDefaults(cfg *Config) {
	if cfg.Workspace.Path == "" {
		cfg.Workspace.Path = "~/.sandbot/workspace"
	}
	if cfg.Identity.Folder == "" {
		cfg.Identity.Folder = MainFolder
	}
	if cfg.Identity.ConversationID == "" {
		cfg.Identity.ConversationID = cfg.Identity.Folder
	}
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = DefaultModel
	}
	if cfg.Agent.MaxTokens == 0 {
		cfg.Agent.MaxTokens = defaultMaxTokens
	}
	if cfg.Agent.MaxRounds == 0 {
		cfg.Agent.MaxRounds = DefaultMaxRounds
	}
	if cfg.Agent.Temperature == 0 {
		cfg.Agent.Temperature = defaultTemperature
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = DefaultBaseURL
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = defaultLLMTimeoutSec
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Tools.Shell.TimeoutSeconds == 0 {
		cfg.Tools.Shell.TimeoutSeconds = defaultShellTimeoutSec
	}
	if cfg.Tools.Shell.MaxOutputBytes == 0 {
		cfg.Tools.Shell.MaxOutputBytes = defaultShellOutputBytes
	}
	if cfg.Tools.Fetch.TimeoutSeconds == 0 {
		cfg.Tools.Fetch.TimeoutSeconds = defaultFetchTimeoutSec
	}
	if cfg.Tools.Fetch.MaxResponseBytes == 0 {
		cfg.Tools.Fetch.MaxResponseBytes = defaultFetchMaxBytes
	}
	if cfg.Tools.Fetch.UserAgent == "" {
		cfg.Tools.Fetch.UserAgent = defaultUserAgent
	}
	if cfg.IPC.Dir == "" {
		cfg.IPC.Dir = "~/.sandbot/ipc"
	}
}
