package search_test

import (
	"context"
	"math"
	"testing"

	chromem "github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
	"github.com/fyrsmithlabs/invoiceqa/internal/search"
)

// testEmbedding returns a deterministic normalized vector per text so
// identical texts match exactly without a real embedding service.
func testEmbedding(vectorSize int) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		embedding := make([]float32, vectorSize)
		hash := 0
		for _, c := range text {
			hash = (hash*31 + int(c)) % 1000
		}
		var sumSq float64
		for i := range embedding {
			embedding[i] = float32((hash+i)%100) / 100.0
			sumSq += float64(embedding[i] * embedding[i])
		}
		if sumSq > 0 {
			norm := float32(1.0 / math.Sqrt(sumSq))
			for i := range embedding {
				embedding[i] *= norm
			}
		}
		return embedding, nil
	}
}

func newTestChromemBackend(t *testing.T) *search.ChromemBackend {
	t.Helper()

	backend, err := search.NewChromemBackend(search.ChromemConfig{
		Path:       t.TempDir(),
		Collection: "invoices_test",
	}, testEmbedding(64), nil)
	require.NoError(t, err)
	return backend
}

func TestNewChromemBackendRequiresEmbedder(t *testing.T) {
	_, err := search.NewChromemBackend(search.ChromemConfig{Path: t.TempDir()}, nil, nil)
	assert.ErrorIs(t, err, search.ErrInvalidConfig)
}

func TestChromemIndexAndSearchRoundTrip(t *testing.T) {
	backend := newTestChromemBackend(t)
	ctx := context.Background()

	ids, err := backend.Index(ctx, []invoice.Record{
		{"invoice_id": "101", "customer_name": "Alice Johnson", "total_amount": 250.00},
		{"invoice_id": "102", "customer_name": "Bob Smith", "product": "Wireless Mouse"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Contains(t, ids, "inv_101")
	assert.Contains(t, ids, "inv_102")

	records, err := backend.Search(ctx, "Invoice ID: 101 | Customer: Alice Johnson | Total Amount: 250.0", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Exact content match ranks first with the deterministic embedder.
	top := invoice.Normalize(records[0])
	assert.Equal(t, "Invoice ID: 101 | Customer: Alice Johnson | Total Amount: 250.0", top.Content)
	assert.Equal(t, "Alice Johnson", records[0]["customer_name"])
}

func TestChromemSearchClampsLimitToCollectionSize(t *testing.T) {
	backend := newTestChromemBackend(t)
	ctx := context.Background()

	_, err := backend.Index(ctx, []invoice.Record{
		{"invoice_id": "101", "customer_name": "Alice Johnson"},
	})
	require.NoError(t, err)

	records, err := backend.Search(ctx, "Alice", 5)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestChromemSearchEmptyCollection(t *testing.T) {
	backend := newTestChromemBackend(t)

	records, err := backend.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestChromemSearchRejectsEmptyQuery(t *testing.T) {
	backend := newTestChromemBackend(t)

	_, err := backend.Search(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, search.ErrEmptyQuery)
}

func TestChromemIndexNothing(t *testing.T) {
	backend := newTestChromemBackend(t)

	ids, err := backend.Index(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
