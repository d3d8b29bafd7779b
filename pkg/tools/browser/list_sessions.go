package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/webscout/pkg/agent/tools"
)

// ListSessionsTool lists all open browser sessions.
type ListSessionsTool struct {
	manager *SessionManager
}

// NewListSessionsTool creates a new list sessions tool.
func NewListSessionsTool(manager *SessionManager) *ListSessionsTool {
	return &ListSessionsTool{manager: manager}
}

// Name returns the tool name.
func (t *ListSessionsTool) Name() string {
	return "list_browser_sessions"
}

// Description returns the tool description.
func (t *ListSessionsTool) Description() string {
	return "List all open browser sessions with their current page."
}

// Schema returns the tool's JSON schema.
func (t *ListSessionsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute lists all sessions.
func (t *ListSessionsTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	sessions := t.manager.List()
	if len(sessions) == 0 {
		return "No open browser sessions.\n\nUse open_website to open one.", nil, nil
	}

	now := time.Now()
	var result strings.Builder
	fmt.Fprintf(&result, "Open Browser Sessions: %d\n\n", len(sessions))
	for i, s := range sessions {
		mode := "headed"
		if s.Headless {
			mode = "headless"
		}
		fmt.Fprintf(&result, "%d. %s\n   URL: %s\n   Browser: %s (%s)\n   Age: %s\n   Last Used: %s ago\n\n",
			i+1, s.Name, s.CurrentURL, s.Family, mode,
			formatDuration(now.Sub(s.CreatedAt)), formatDuration(now.Sub(s.LastUsedAt)))
	}
	result.WriteString("Use close_browser_session to close a session when finished.")

	return result.String(), map[string]interface{}{"count": len(sessions)}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ListSessionsTool) IsLoopBreaking() bool {
	return false
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
