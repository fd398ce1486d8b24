package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
)

// ChromemConfig holds configuration for the embedded chromem-go index.
type ChromemConfig struct {
	// Path is the directory for persistent storage. A leading ~ expands to
	// the user's home directory.
	Path string

	// Collection is the collection invoices are stored in.
	Collection string

	// Compress enables gzip compression for stored data.
	Compress bool
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "~/.config/invoiceqa/index"
	}
	if c.Collection == "" {
		c.Collection = "invoices"
	}
}

// ChromemBackend is a search Backend over an embedded chromem-go vector
// database. It owns its index: records are loaded through Index and found
// again through Search by embedding similarity.
type ChromemBackend struct {
	db     *chromem.DB
	embed  chromem.EmbeddingFunc
	config ChromemConfig
	logger *zap.Logger
}

// NewChromemBackend creates a ChromemBackend with the given configuration.
// The embedding function is required; it is used both at indexing and at
// query time and must produce vectors of a consistent dimension.
func NewChromemBackend(cfg ChromemConfig, embed chromem.EmbeddingFunc, logger *zap.Logger) (*ChromemBackend, error) {
	if embed == nil {
		return nil, fmt.Errorf("%w: embedding function is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg.ApplyDefaults()

	path, err := expandPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	logger.Info("chromem index opened",
		zap.String("path", path),
		zap.String("collection", cfg.Collection),
		zap.Bool("compress", cfg.Compress),
	)

	return &ChromemBackend{
		db:     db,
		embed:  embed,
		config: cfg,
		logger: logger,
	}, nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Index stores invoice records in the collection. Each record is normalized
// to canonical text for embedding; the raw fields are kept as document
// metadata so Search can reconstruct the record.
func (b *ChromemBackend) Index(ctx context.Context, records []invoice.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	collection, err := b.db.GetOrCreateCollection(b.config.Collection, nil, b.embed)
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", b.config.Collection, err)
	}

	docs := make([]chromem.Document, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		doc := invoice.Normalize(rec)
		id := recordID(rec)
		ids = append(ids, id)
		docs = append(docs, chromem.Document{
			ID:       id,
			Content:  doc.Content,
			Metadata: recordToMetadata(rec),
		})
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	b.logger.Debug("indexed invoice records",
		zap.String("collection", b.config.Collection),
		zap.Int("count", len(ids)),
	)
	return ids, nil
}

// Search returns up to limit records ranked by embedding similarity.
func (b *ChromemBackend) Search(ctx context.Context, query string, limit int) ([]invoice.Record, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	collection := b.db.GetCollection(b.config.Collection, b.embed)
	if collection == nil {
		// Nothing indexed yet.
		return nil, nil
	}

	// chromem requires nResults <= document count.
	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", b.config.Collection, err)
	}

	records := make([]invoice.Record, 0, len(results))
	for _, r := range results {
		records = append(records, resultToRecord(r))
	}

	b.logger.Debug("searched chromem collection",
		zap.String("collection", b.config.Collection),
		zap.Int("limit", limit),
		zap.Int("results", len(records)),
	)
	return records, nil
}

// recordID derives a stable document ID from the invoice id when present.
func recordID(rec invoice.Record) string {
	if v, ok := rec["invoice_id"]; ok {
		if s := fmt.Sprintf("%v", v); s != "" && s != "<nil>" {
			return "inv_" + s
		}
	}
	return uuid.NewString()
}

// recordToMetadata flattens a record into chromem's string metadata.
// Non-scalar values are skipped; the normalizer would ignore them anyway.
func recordToMetadata(rec invoice.Record) map[string]string {
	meta := make(map[string]string, len(rec))
	for k, v := range rec {
		switch v.(type) {
		case string, bool, int, int64, float32, float64:
			meta[k] = fmt.Sprintf("%v", v)
		}
	}
	return meta
}

// resultToRecord rebuilds a raw record from a chromem result. The stored
// canonical content rides along under the conventional "content" field so
// normalization downstream is exact.
func resultToRecord(r chromem.Result) invoice.Record {
	rec := make(invoice.Record, len(r.Metadata)+2)
	for k, v := range r.Metadata {
		rec[k] = v
	}
	if r.Content != "" {
		rec[invoice.ContentField] = r.Content
	}
	rec["@search.score"] = float64(r.Similarity)
	return rec
}
