// Package memory keeps the raw page chunks and chunk summaries produced while
// a page is summarized, so later questions can reuse them.
package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes raw page text from model summaries.
type Kind string

const (
	KindRaw     Kind = "raw"
	KindSummary Kind = "summary"
)

// IDPrefix is the prefix of every record id.
const IDPrefix = "mem_"

// Record is one remembered chunk.
type Record struct {
	CreatedAt time.Time
	ID        string
	Source    string // page URL
	Kind      Kind
	Content   string
	Part      int // 1-based chunk number
}

// NewRecord validates the fields and stamps an id and creation time.
func NewRecord(source string, kind Kind, part int, content string) (*Record, error) {
	if kind != KindRaw && kind != KindSummary {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	if part < 1 {
		return nil, fmt.Errorf("record part must be at least 1, got %d", part)
	}
	return &Record{
		ID:        IDPrefix + uuid.NewString(),
		Source:    source,
		Kind:      kind,
		Part:      part,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

// String renders the record the way it is fed back to a model.
func (r *Record) String() string {
	label := "Raw content"
	if r.Kind == KindSummary {
		label = "Content summary"
	}
	return fmt.Sprintf("Source: %s\n%s part#%d: %s", r.Source, label, r.Part, r.Content)
}
