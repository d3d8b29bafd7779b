package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/entrhq/webscout/pkg/agent/tools"
	"github.com/entrhq/webscout/pkg/memory"
)

// DefaultMemoryResults is how many records search_page_memory returns when
// no limit is given.
const DefaultMemoryResults = 5

// SearchMemoryTool searches page text and summaries remembered while
// browsing.
type SearchMemoryTool struct {
	store *memory.Store
}

// NewSearchMemoryTool creates a tool over store.
func NewSearchMemoryTool(store *memory.Store) *SearchMemoryTool {
	return &SearchMemoryTool{store: store}
}

func (t *SearchMemoryTool) Name() string { return "search_page_memory" }

func (t *SearchMemoryTool) Description() string {
	return "Search the page text and partial summaries gathered by earlier browse_website and read_page calls, without loading the page again."
}

func (t *SearchMemoryTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Text to look for, case-insensitive",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Only search content from this page URL",
			},
			"kind": map[string]interface{}{
				"type":        "string",
				"description": "Only search 'raw' page text or 'summary' records",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of records to return (default 5)",
			},
		},
		[]string{"query"},
	)
}

type searchMemoryInput struct {
	XMLName xml.Name `xml:"arguments"`
	Query   string   `xml:"query"`
	URL     string   `xml:"url"`
	Kind    string   `xml:"kind"`
	Limit   string   `xml:"limit"`
}

// Execute returns the matching records, oldest first.
func (t *SearchMemoryTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input searchMemoryInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return "", nil, fmt.Errorf("query is required")
	}

	opts := memory.ListOptions{
		Source: strings.TrimSpace(input.URL),
		Kind:   memory.Kind(strings.ToLower(strings.TrimSpace(input.Kind))),
		Limit:  DefaultMemoryResults,
	}
	if opts.Kind != "" && opts.Kind != memory.KindRaw && opts.Kind != memory.KindSummary {
		return "", nil, fmt.Errorf("kind must be %q or %q, got %q", memory.KindRaw, memory.KindSummary, input.Kind)
	}
	if limit := strings.TrimSpace(input.Limit); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return "", nil, fmt.Errorf("limit must be a positive integer, got %q", input.Limit)
		}
		opts.Limit = n
	}

	records := t.store.Search(query, opts)
	if len(records) == 0 {
		return fmt.Sprintf("No remembered page content matches %q.", query), map[string]interface{}{"count": 0}, nil
	}

	parts := make([]string, len(records))
	for i, rec := range records {
		parts[i] = rec.String()
	}
	result := fmt.Sprintf("Found %d remembered record(s) for %q:\n\n%s", len(records), query, strings.Join(parts, "\n\n"))
	return result, map[string]interface{}{"count": len(records)}, nil
}

func (t *SearchMemoryTool) IsLoopBreaking() bool { return false }
