// Package tools defines the XML tool-call contract used to expose webscout
// operations to an LLM agent.
package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"sync"
)

// Tool is a capability an agent can invoke through an XML tool call.
//
// Example tool call:
//
//	<tool>
//	<server_name>local</server_name>
//	<tool_name>browse_website</tool_name>
//	<arguments>
//	  <url>https://example.com</url>
//	  <question>What is this site about?</question>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Schema returns the JSON schema for this tool's arguments.
	Schema() map[string]interface{}

	// Execute runs the tool with XML arguments.
	// Metadata is optional and may be nil.
	Execute(ctx context.Context, argumentsXML []byte) (string, map[string]interface{}, error)

	// IsLoopBreaking reports whether the agent loop should stop after this tool.
	IsLoopBreaking() bool
}

// ToolCall is a parsed tool invocation from an LLM response.
type ToolCall struct {
	XMLName    xml.Name       `xml:"tool"`
	ServerName string         `xml:"server_name"`
	ToolName   string         `xml:"tool_name"`
	Arguments  ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw XML of the arguments element.
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments wrapped in <arguments> tags.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const prefix, suffix = "<arguments>", "</arguments>"

	result := make([]byte, 0, len(prefix)+len(tc.Arguments.InnerXML)+len(suffix))
	result = append(result, prefix...)
	result = append(result, tc.Arguments.InnerXML...)
	return append(result, suffix...)
}

// BaseToolSchema builds an object schema from properties and required names.
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Registry maps tool names to tools.
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry creates a registry holding the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Dispatch executes call against the matching registered tool.
func (r *Registry) Dispatch(ctx context.Context, call *ToolCall) (string, map[string]interface{}, error) {
	if err := ValidateToolCall(call); err != nil {
		return "", nil, err
	}
	t, ok := r.Get(call.ToolName)
	if !ok {
		return "", nil, fmt.Errorf("unknown tool %q", call.ToolName)
	}
	return t.Execute(ctx, call.GetArgumentsXML())
}
