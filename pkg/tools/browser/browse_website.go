package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/webscout/pkg/agent/tools"
)

// BrowseWebsiteTool answers a question from a single page load.
type BrowseWebsiteTool struct {
	service *Service
}

// NewBrowseWebsiteTool creates a new browse website tool.
func NewBrowseWebsiteTool(service *Service) *BrowseWebsiteTool {
	return &BrowseWebsiteTool{service: service}
}

// Name returns the tool name.
func (t *BrowseWebsiteTool) Name() string {
	return "browse_website"
}

// Description returns the tool description.
func (t *BrowseWebsiteTool) Description() string {
	return "Open a website in a fresh browser, answer a question from its text and list a few of its links. The browser is closed afterwards."
}

// Schema returns the tool's JSON schema.
func (t *BrowseWebsiteTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute URL of the page to read",
			},
			"question": map[string]interface{}{
				"type":        "string",
				"description": "What you want to find out from the page",
			},
		},
		[]string{"url", "question"},
	)
}

// BrowseWebsiteInput defines the input parameters for browse_website.
type BrowseWebsiteInput struct {
	XMLName  xml.Name `xml:"arguments"`
	URL      string   `xml:"url"`
	Question string   `xml:"question"`
}

// Execute browses the page and returns the answer.
func (t *BrowseWebsiteTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input BrowseWebsiteInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.URL == "" {
		return "", nil, fmt.Errorf("url is required")
	}

	result, _, err := t.service.BrowseWebsite(ctx, input.URL, input.Question)
	if err != nil {
		return "", nil, fmt.Errorf("failed to browse %s: %w", input.URL, err)
	}

	return result, map[string]interface{}{"url": input.URL}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *BrowseWebsiteTool) IsLoopBreaking() bool {
	return false
}
