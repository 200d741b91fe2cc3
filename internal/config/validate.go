package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for startup-time errors. A missing
// provider base URL or API key is a configuration error, not something to
// retry at runtime.
func (c *Config) Validate() []error {
	var errors []error

	if c.Workspace.Path == "" {
		errors = append(errors, fmt.Errorf("workspace.path is required"))
	}

	if c.LLM.BaseURL == "" {
		errors = append(errors, fmt.Errorf("llm.base_url is required (set it in the config file or via SANDBOT_BASE_URL)"))
	}
	if c.LLM.APIKey == "" {
		errors = append(errors, fmt.Errorf("llm.api_key is required (set it in the config file or via SANDBOT_API_KEY)"))
	} else if len(c.LLM.APIKey) < 10 {
		errors = append(errors, fmt.Errorf("llm.api_key is too short (minimum 10 characters, got %d)", len(c.LLM.APIKey)))
	}

	if c.Identity.Folder == "" {
		errors = append(errors, fmt.Errorf("identity.folder is required"))
	}
	if c.Identity.ConversationID == "" {
		errors = append(errors, fmt.Errorf("identity.conversation_id is required"))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}

	if c.Agent.MaxRounds < 1 {
		errors = append(errors, fmt.Errorf("agent.max_rounds must be at least 1, got %d", c.Agent.MaxRounds))
	}

	return errors
}
