package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/webscout/pkg/agent/tools"
)

// OpenWebsiteTool opens a page in a named session that stays open.
type OpenWebsiteTool struct {
	manager *SessionManager
}

// NewOpenWebsiteTool creates a new open website tool.
func NewOpenWebsiteTool(manager *SessionManager) *OpenWebsiteTool {
	return &OpenWebsiteTool{manager: manager}
}

// Name returns the tool name.
func (t *OpenWebsiteTool) Name() string {
	return "open_website"
}

// Description returns the tool description.
func (t *OpenWebsiteTool) Description() string {
	return "Open a website in a named browser session that stays open. Use read_page to question it and close_browser_session when finished."
}

// Schema returns the tool's JSON schema.
func (t *OpenWebsiteTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Unique name for the browser session (e.g., 'research')",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute URL of the page to open",
			},
		},
		[]string{"session", "url"},
	)
}

// OpenWebsiteInput defines the input parameters for open_website.
type OpenWebsiteInput struct {
	XMLName xml.Name `xml:"arguments"`
	Session string   `xml:"session"`
	URL     string   `xml:"url"`
}

// Execute opens the page and registers the session.
func (t *OpenWebsiteTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input OpenWebsiteInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if input.URL == "" {
		return "", nil, fmt.Errorf("url is required")
	}

	session, err := t.manager.Open(ctx, input.Session, input.URL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open website: %w", err)
	}

	info := session.Info()
	mode := "headed"
	if info.Headless {
		mode = "headless"
	}
	result := fmt.Sprintf("%s\n\nSession: %s\nBrowser: %s (%s)\nURL: %s",
		OpenedMessage, info.Name, info.Family, mode, info.CurrentURL)

	return result, map[string]interface{}{"session": info.Name, "url": info.CurrentURL}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *OpenWebsiteTool) IsLoopBreaking() bool {
	return false
}
