package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/webscout/pkg/agent/tools"
)

// CloseSessionTool closes a browser session.
type CloseSessionTool struct {
	manager *SessionManager
}

// NewCloseSessionTool creates a new close session tool.
func NewCloseSessionTool(manager *SessionManager) *CloseSessionTool {
	return &CloseSessionTool{manager: manager}
}

func (t *CloseSessionTool) Name() string { return "close_browser_session" }

func (t *CloseSessionTool) Description() string {
	return "Close a browser session and release its browser. The session name can be reused afterwards."
}

func (t *CloseSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Name of the browser session to close",
			},
		},
		[]string{"session"},
	)
}

type closeSessionInput struct {
	XMLName xml.Name `xml:"arguments"`
	Session string   `xml:"session"`
}

// Execute closes the named session and reports the page it was on.
func (t *CloseSessionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input closeSessionInput
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
	lastURL := session.Info().CurrentURL

	if err := t.manager.Close(input.Session); err != nil {
		return "", nil, fmt.Errorf("failed to close session: %w", err)
	}

	remaining := len(t.manager.List())
	result := fmt.Sprintf("Session %q closed. It was on %s.\n%d browser session(s) still open.",
		input.Session, lastURL, remaining)
	return result, map[string]interface{}{
		"session":   input.Session,
		"url":       lastURL,
		"remaining": remaining,
	}, nil
}

func (t *CloseSessionTool) IsLoopBreaking() bool { return false }
