package synthesis

import (
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
)

// stuffPrompt is the stuff-composition prompt: every retrieved document is
// inlined into a single completion, no map-reduce or iterative refinement.
var stuffPrompt = prompts.NewPromptTemplate(
	`Use the following invoice records to answer the question at the end. If the records do not contain the answer, say you don't know; do not make up an answer.

{{.context}}

Question: {{.question}}
Helpful Answer:`,
	[]string{"context", "question"},
)

// buildStuffPrompt renders the stuff prompt for a question over the
// retrieved documents. An empty document set renders an explicit
// no-records marker so the model answers from nothing rather than
// hallucinating.
func buildStuffPrompt(question string, docs []invoice.Document) (string, error) {
	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(doc.Content)
	}
	context := b.String()
	if context == "" {
		context = "(no invoice records found)"
	}

	return stuffPrompt.Format(map[string]any{
		"context":  context,
		"question": question,
	})
}
