// Package fetch provides the web-facing tools: HTTP page fetching with
// HTML-to-markdown conversion, and a search stub that points the model at
// the fetch tool until a search backend is wired in.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/aatumaykin/sandbot/internal/config"
	"github.com/aatumaykin/sandbot/internal/logger"
)

const defaultUserAgent = "sandbot/1.0"

// WebFetchTool implements the Tool interface for fetching web pages.
// Only absolute http/https URLs are accepted; responses are truncated to
// a configured size before conversion.
type WebFetchTool struct {
	client *http.Client
	cfg    config.FetchToolConfig
	logger *logger.Logger
}

// WebFetchArgs represents the arguments for the web_fetch tool.
type WebFetchArgs struct {
	URL    string `json:"url"`              // absolute http or https URL
	Format string `json:"format,omitempty"` // text, markdown or html
}

// NewWebFetchTool creates a new WebFetchTool instance.
func NewWebFetchTool(cfg config.FetchToolConfig, log *logger.Logger) *WebFetchTool {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &WebFetchTool{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
		logger: log,
	}
}

// Name returns the tool name.
func (t *WebFetchTool) Name() string {
	return "web_fetch"
}

// Description returns a description of what the tool does.
func (t *WebFetchTool) Description() string {
	return "Fetch a web page by URL and return its content as markdown, plain text or raw HTML. Only absolute http/https URLs are accepted."
}

// Parameters returns the JSON Schema for the tool's parameters.
func (t *WebFetchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "The absolute http or https URL to fetch.",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Output format: markdown (default), text or html.",
				"enum":        []string{"markdown", "text", "html"},
			},
		},
		"required": []string{"url"},
	}
}

// Execute fetches the URL.
func (t *WebFetchTool) Execute(args string) (string, error) {
	return t.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext fetches the URL with cancellation support.
func (t *WebFetchTool) ExecuteWithContext(ctx context.Context, args string) (string, error) {
	var fetchArgs WebFetchArgs
	if err := json.Unmarshal([]byte(args), &fetchArgs); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if fetchArgs.URL == "" {
		return "", fmt.Errorf("url is required")
	}

	parsed, err := url.Parse(fetchArgs.URL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("only absolute http/https URLs are supported, got %q", fetchArgs.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchArgs.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	ua := t.cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	t.logger.Debug("fetching url", logger.Field{Key: "url", Value: fetchArgs.URL})

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, truncated, err := t.readBounded(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := body
		if len(preview) > 512 {
			preview = preview[:512]
		}
		return "", fmt.Errorf("HTTP error: status=%d, body=%s", resp.StatusCode, preview)
	}

	contentType := resp.Header.Get("Content-Type")
	out, err := t.render(body, contentType, fetchArgs.Format)
	if err != nil {
		return "", err
	}
	if truncated {
		out += "\n... (response truncated)"
	}
	return out, nil
}

// readBounded reads at most MaxResponseBytes and reports whether the body
// was cut short.
func (t *WebFetchTool) readBounded(r io.Reader) (string, bool, error) {
	max := t.cfg.MaxResponseBytes
	if max <= 0 {
		max = 100 * 1024
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(max)+1))
	if err != nil {
		return "", false, err
	}
	if len(data) > max {
		return string(data[:max]), true, nil
	}
	return string(data), false, nil
}

// render converts the body according to the requested format. Non-HTML
// content is returned as-is regardless of format.
func (t *WebFetchTool) render(body, contentType, format string) (string, error) {
	isHTML := strings.Contains(contentType, "text/html") ||
		strings.HasPrefix(strings.TrimSpace(body), "<!DOCTYPE") ||
		strings.HasPrefix(strings.TrimSpace(body), "<html")

	if !isHTML || format == "html" {
		return body, nil
	}

	switch format {
	case "text":
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML: %w", err)
		}
		doc.Find("script, style, noscript").Remove()
		return strings.TrimSpace(doc.Text()), nil
	default: // markdown
		converter := md.NewConverter("", true, nil)
		markdown, err := converter.ConvertString(body)
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
		}
		return strings.TrimSpace(markdown), nil
	}
}
