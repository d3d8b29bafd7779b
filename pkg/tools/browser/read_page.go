package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/webscout/pkg/agent/tools"
)

// ReadPageTool questions the page loaded in an open session.
type ReadPageTool struct {
	manager *SessionManager
}

// NewReadPageTool creates a new read page tool.
func NewReadPageTool(manager *SessionManager) *ReadPageTool {
	return &ReadPageTool{manager: manager}
}

// Name returns the tool name.
func (t *ReadPageTool) Name() string {
	return "read_page"
}

// Description returns the tool description.
func (t *ReadPageTool) Description() string {
	return "Answer a question from the page currently open in a browser session. Optionally navigate the session to a new URL first."
}

// Schema returns the tool's JSON schema.
func (t *ReadPageTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to read",
			},
			"question": map[string]interface{}{
				"type":        "string",
				"description": "What you want to find out from the page",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Optional URL to load in the session before reading",
			},
		},
		[]string{"session", "question"},
	)
}

// ReadPageInput defines the input parameters for read_page.
type ReadPageInput struct {
	XMLName  xml.Name `xml:"arguments"`
	Session  string   `xml:"session"`
	Question string   `xml:"question"`
	URL      string   `xml:"url"`
}

// Execute reads the session's page and returns the answer.
func (t *ReadPageTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input ReadPageInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}

	session, err := t.manager.Get(input.Session)
	if err != nil {
		return "", nil, err
	}

	service := t.manager.Service()
	var result string
	err = session.Use(ctx, func(d Driver) error {
		if url := strings.TrimSpace(input.URL); url != "" {
			if err := service.load(ctx, d, url); err != nil {
				return err
			}
		}
		var rerr error
		result, rerr = service.ReadPage(ctx, d, input.Question)
		return rerr
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to read page in session %q: %w", input.Session, err)
	}

	info := session.Info()
	return result, map[string]interface{}{"session": info.Name, "url": info.CurrentURL}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ReadPageTool) IsLoopBreaking() bool {
	return false
}
