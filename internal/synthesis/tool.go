package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/invoiceqa/internal/search"
)

// toolResultLimit caps how many document contents the tool renders.
const toolResultLimit = 5

// SearchTool exposes the retriever as a named tool for a tool-using agent
// engine. Input is free text; output is a newline-joined rendering of up to
// five document contents, or a fixed no-results message.
//
// It implements langchaingo's tools.Tool interface.
type SearchTool struct {
	retriever *search.Retriever
}

// NewSearchTool wraps the retriever as the invoice_search tool.
func NewSearchTool(retriever *search.Retriever) *SearchTool {
	return &SearchTool{retriever: retriever}
}

// Name implements tools.Tool.
func (t *SearchTool) Name() string {
	return "invoice_search"
}

// Description implements tools.Tool.
func (t *SearchTool) Description() string {
	return "Search for invoice information. Use this when you need to find specific invoices, customer information, products, or financial data. Input is a free-text search query."
}

// Call implements tools.Tool. Retrieval failures surface as the no-results
// message, never as an error, so the agent loop keeps running.
func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	docs := t.retriever.Retrieve(ctx, strings.TrimSpace(input))
	if len(docs) == 0 {
		return "No relevant invoices found.", nil
	}
	if len(docs) > toolResultLimit {
		docs = docs[:toolResultLimit]
	}

	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("Result %d:\n%s", i+1, doc.Content))
	}
	return strings.Join(parts, "\n\n"), nil
}
