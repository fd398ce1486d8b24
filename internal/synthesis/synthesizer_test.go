package synthesis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
	"github.com/fyrsmithlabs/invoiceqa/internal/search"
	"github.com/fyrsmithlabs/invoiceqa/internal/synthesis"
)

// fakeLLM returns a canned completion or error and records prompts.
type fakeLLM struct {
	response   string
	err        error
	delay      time.Duration
	lastPrompt string
	calls      int
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.lastPrompt = text.Text
			}
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

// recordsBackend serves canned records.
type recordsBackend struct {
	records []invoice.Record
	err     error
}

func (b *recordsBackend) Search(ctx context.Context, query string, limit int) ([]invoice.Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.records) > limit {
		return b.records[:limit], nil
	}
	return b.records, nil
}

func newRetriever(backend search.Backend) *search.Retriever {
	return search.NewRetriever(backend, search.RetrieverConfig{}, nil)
}

func newTopKRetriever(backend search.Backend, topK int) *search.Retriever {
	return search.NewRetriever(backend, search.RetrieverConfig{TopK: topK}, nil)
}

func TestAnswerGroundsInRetrievedDocuments(t *testing.T) {
	llm := &fakeLLM{response: "Alice Johnson's invoice totals $250."}
	backend := &recordsBackend{records: []invoice.Record{
		{"customer_name": "Alice Johnson", "total_amount": 250.00},
		{"content": "Invoice 102 for Bob Smith"},
	}}
	s := synthesis.New(llm, newRetriever(backend), synthesis.Config{}, nil)

	res := s.Answer(context.Background(), "What is the total for Alice Johnson?")

	assert.Equal(t, "Alice Johnson's invoice totals $250.", res.Answer)
	assert.False(t, res.Failed)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "Customer: Alice Johnson | Total Amount: 250.0", res.Sources[0].Content)

	// Stuff composition: all retrieved text inlined in one prompt.
	assert.Contains(t, llm.lastPrompt, "Customer: Alice Johnson | Total Amount: 250.0")
	assert.Contains(t, llm.lastPrompt, "Invoice 102 for Bob Smith")
	assert.Contains(t, llm.lastPrompt, "What is the total for Alice Johnson?")
	assert.Equal(t, 1, llm.calls)
}

func TestAnswerWithEmptyRetrieval(t *testing.T) {
	llm := &fakeLLM{response: "I don't know; there are no invoices for Bob Smith."}
	s := synthesis.New(llm, newRetriever(&recordsBackend{}), synthesis.Config{}, nil)

	res := s.Answer(context.Background(), "Find invoices for Bob Smith")

	assert.NotEmpty(t, res.Answer)
	assert.Empty(t, res.Sources)
	assert.False(t, res.Failed)
	assert.Contains(t, llm.lastPrompt, "(no invoice records found)")
}

func TestAnswerDegradesOnLLMFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota exceeded")}
	backend := &recordsBackend{records: []invoice.Record{{"invoice_id": "101"}}}
	s := synthesis.New(llm, newRetriever(backend), synthesis.Config{}, nil)

	res := s.Answer(context.Background(), "anything")

	assert.True(t, res.Failed)
	assert.Contains(t, res.Answer, "Error processing query")
	assert.Contains(t, res.Answer, "quota exceeded")
	assert.Empty(t, res.Sources)
}

func TestAnswerDegradesOnTimeout(t *testing.T) {
	llm := &fakeLLM{response: "too late", delay: time.Second}
	s := synthesis.New(llm, newRetriever(&recordsBackend{}), synthesis.Config{Timeout: 10 * time.Millisecond}, nil)

	res := s.Answer(context.Background(), "anything")

	assert.True(t, res.Failed)
	assert.Contains(t, res.Answer, "Error processing query")
}

func TestAnswerRetrievalFailureStillAnswers(t *testing.T) {
	// Backend failure degrades to empty retrieval, not a synthesis failure.
	llm := &fakeLLM{response: "No information found."}
	s := synthesis.New(llm, newRetriever(&recordsBackend{err: errors.New("unreachable")}), synthesis.Config{}, nil)

	res := s.Answer(context.Background(), "Find invoices for Bob Smith")

	assert.False(t, res.Failed)
	assert.Equal(t, "No information found.", res.Answer)
	assert.Empty(t, res.Sources)
}
