package evidence

import (
	"fmt"
	"strings"

	"github.com/trustlens/trustlens/src/factcheck/types"
)

// ContextBuilder assembles ranked passages from multiple sources into one
// labeled evidence block for prompting. Numbering continues across Add calls
// so evidence from several providers merges into a single context.
type ContextBuilder struct {
	items []types.EvidenceItem
	tags  []string
}

// NewContextBuilder returns an empty builder.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

// Add appends one evidence item and returns its tag ("S1", "S2", ...).
func (b *ContextBuilder) Add(item types.EvidenceItem) string {
	tag := fmt.Sprintf("S%d", len(b.items)+1)
	b.items = append(b.items, item)
	b.tags = append(b.tags, tag)
	return tag
}

// AddAll appends several items in discovery order.
func (b *ContextBuilder) AddAll(items []types.EvidenceItem) {
	for _, item := range items {
		b.Add(item)
	}
}

// Len reports how many sources have been added.
func (b *ContextBuilder) Len() int { return len(b.items) }

// Items returns the accumulated evidence in discovery order.
func (b *ContextBuilder) Items() []types.EvidenceItem { return b.items }

// Build renders the labeled evidence block consumable by a prompt.
func (b *ContextBuilder) Build() string {
	var sb strings.Builder
	for i, item := range b.items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n", b.tags[i], item.Title))
		sb.WriteString(fmt.Sprintf("URL: %s\n", item.URL))
		if item.Snippet != "" {
			sb.WriteString(fmt.Sprintf("Snippet: %s\n", item.Snippet))
		}
		for _, extract := range item.Extracts {
			sb.WriteString(fmt.Sprintf("Extract: %s\n", extract))
		}
	}
	return sb.String()
}
