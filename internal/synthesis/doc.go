// Package synthesis produces grounded answers from retrieved invoice
// documents. The Synthesizer implements the simple one-shot pipeline:
// retrieve, then a single stuff-composition completion over the retrieved
// text. It also provides the invoice_search tool that the full agent
// pipeline hands to its reasoning engine.
//
// Synthesis never fails past its boundary: a language-model error is
// converted into a Result carrying a human-readable error message and no
// sources.
package synthesis
