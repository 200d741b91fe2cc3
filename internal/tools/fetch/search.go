package fetch

// WebSearchTool is a placeholder for a search backend. It always returns
// guidance steering the model toward web_fetch with a known URL.
//
// TODO: wire a real search provider once the host exposes one.
type WebSearchTool struct{}

// NewWebSearchTool creates a new WebSearchTool instance.
func NewWebSearchTool() *WebSearchTool {
	return &WebSearchTool{}
}

// Name returns the tool name.
func (t *WebSearchTool) Name() string {
	return "web_search"
}

// Description returns a description of what the tool does.
func (t *WebSearchTool) Description() string {
	return "Search the web. Currently unavailable; prefer web_fetch with a direct URL when one is known."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *WebSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search query.",
			},
		},
		"required": []string{"query"},
	}
}

// Execute reports that no search backend is configured.
func (t *WebSearchTool) Execute(args string) (string, error) {
	return "Web search is not configured in this sandbox. " +
		"If you know a relevant URL, use the web_fetch tool instead.", nil
}
