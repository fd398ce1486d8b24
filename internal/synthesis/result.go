package synthesis

import "github.com/fyrsmithlabs/invoiceqa/internal/invoice"

// Result is the outcome of answering one question. It is created once per
// query and never mutated.
type Result struct {
	// Answer is the synthesized answer text, or a human-readable error
	// message when synthesis degraded.
	Answer string

	// Sources are the retrieved documents the answer is grounded in,
	// in retrieval rank order. Empty when retrieval found nothing or when
	// synthesis degraded.
	Sources []invoice.Document

	// Failed reports that the language-model call errored and Answer
	// carries the degraded error message rather than a real answer.
	Failed bool
}
