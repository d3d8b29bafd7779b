package browser

import (
	"github.com/entrhq/webscout/pkg/agent/tools"
	"github.com/entrhq/webscout/pkg/memory"
)

// ToolRegistry builds the browser tools around one session manager and,
// optionally, the memory the summarizer writes to.
type ToolRegistry struct {
	manager *SessionManager
	store   *memory.Store
	tools   []tools.Tool
}

// NewToolRegistry creates a new browser tool registry. A nil store leaves
// out search_page_memory.
func NewToolRegistry(manager *SessionManager, store *memory.Store) *ToolRegistry {
	return &ToolRegistry{manager: manager, store: store}
}

// RegisterTools creates and returns all browser tools.
func (r *ToolRegistry) RegisterTools() []tools.Tool {
	if len(r.tools) > 0 {
		return r.tools
	}

	// Always available
	r.tools = append(r.tools,
		NewBrowseWebsiteTool(r.manager.Service()),
		NewOpenWebsiteTool(r.manager),
		NewListSessionsTool(r.manager),
	)

	// Only useful once a session exists
	r.tools = append(r.tools,
		NewReadPageTool(r.manager),
		NewCloseSessionTool(r.manager),
	)

	// Only useful once something was summarized
	if r.store != nil {
		r.tools = append(r.tools, NewSearchMemoryTool(r.store))
	}

	return r.tools
}

// VisibleTools returns the tools worth offering right now. Session tools
// are hidden until a session is open and the memory tool until a page has
// been summarized.
func (r *ToolRegistry) VisibleTools() []tools.Tool {
	all := r.RegisterTools()
	visible := make([]tools.Tool, 0, len(all))
	for _, t := range all {
		if r.shouldShow(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Visible reports whether the tool called name is currently offered.
func (r *ToolRegistry) Visible(name string) bool {
	for _, t := range r.VisibleTools() {
		if t.Name() == name {
			return true
		}
	}
	return false
}

func (r *ToolRegistry) shouldShow(t tools.Tool) bool {
	switch t.(type) {
	case *ReadPageTool, *CloseSessionTool:
		return r.ShouldShowSessionTools()
	case *SearchMemoryTool:
		return r.store.Count() > 0
	default:
		return true
	}
}

// ShouldShowSessionTools reports whether any session is open.
func (r *ToolRegistry) ShouldShowSessionTools() bool {
	return r.manager.HasSessions()
}

// Registry returns a dispatching registry holding every browser tool.
func (r *ToolRegistry) Registry() (*tools.Registry, error) {
	return tools.NewRegistry(r.RegisterTools()...)
}

// GetSessionManager returns the underlying session manager.
func (r *ToolRegistry) GetSessionManager() *SessionManager {
	return r.manager
}
