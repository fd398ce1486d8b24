package search

import (
	"context"
	"errors"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
)

// Sentinel errors for search operations.
var (
	// ErrInvalidConfig indicates invalid backend configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyQuery indicates an empty search query.
	ErrEmptyQuery = errors.New("empty query")

	// ErrUnknownProvider indicates an unrecognized backend provider name.
	ErrUnknownProvider = errors.New("unknown search provider")
)

// Backend executes a query against a search index and returns raw records
// in relevance order. Implementations may fail (network, auth, malformed
// response); the Retriever converts those failures into empty results.
type Backend interface {
	// Search returns up to limit records ranked by relevance.
	Search(ctx context.Context, query string, limit int) ([]invoice.Record, error)
}

// Indexer is implemented by backends that own their index and can load
// records into it. The embedded chromem backend implements it; external
// indexes (Azure) are maintained out of band.
type Indexer interface {
	// Index stores the given records and returns their document IDs.
	Index(ctx context.Context, records []invoice.Record) ([]string, error)
}
