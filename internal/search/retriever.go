package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
)

// DefaultTopK is the default maximum number of documents per query.
const DefaultTopK = 5

// DefaultTimeout bounds a single backend call when none is configured.
const DefaultTimeout = 15 * time.Second

// RetrieverConfig configures a Retriever.
type RetrieverConfig struct {
	// TopK is the maximum number of ranked documents requested per query.
	TopK int

	// Timeout bounds a single backend call.
	Timeout time.Duration
}

// Retriever issues queries against a Backend and returns normalized
// documents in the backend's ranking order.
type Retriever struct {
	backend Backend
	topK    int
	timeout time.Duration
	logger  *zap.Logger
}

// NewRetriever creates a Retriever over the given backend.
func NewRetriever(backend Backend, cfg RetrieverConfig, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Retriever{
		backend: backend,
		topK:    cfg.TopK,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// TopK returns the configured per-query document cap.
func (r *Retriever) TopK() int {
	return r.topK
}

// Retrieve returns up to TopK normalized documents for the query, in the
// backend's ranking order. Any backend failure, including timeout, degrades
// to an empty result: the failure is logged but never propagated, so to the
// caller it is indistinguishable from a genuine "no matches" result.
func (r *Retriever) Retrieve(ctx context.Context, query string) []invoice.Document {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	records, err := r.backend.Search(ctx, query, r.topK)
	retrievalDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		retrievalsTotal.WithLabelValues(outcomeError).Inc()
		r.logger.Warn("search backend failed, degrading to empty result",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	docs := make([]invoice.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, invoice.Normalize(rec))
	}

	retrievalsTotal.WithLabelValues(outcomeOK).Inc()
	r.logger.Debug("retrieved documents",
		zap.String("query", query),
		zap.Int("count", len(docs)),
	)
	return docs
}
