package config

import "os"

// applyEnv fills provider settings from the environment when the config
// file left them empty. SANDBOT_* variables win over the OPENAI_* aliases.
func applyEnv(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = firstEnv("SANDBOT_API_KEY", "OPENAI_API_KEY")
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = firstEnv("SANDBOT_BASE_URL", "OPENAI_BASE_URL")
	}
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = os.Getenv("SANDBOT_MODEL")
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
