package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
)

// AzureConfig holds configuration for an external Azure AI Search index.
type AzureConfig struct {
	// Endpoint is the search service endpoint, e.g.
	// https://myservice.search.windows.net
	Endpoint string

	// APIKey is the query or admin key.
	APIKey string

	// IndexName is the search index to query.
	IndexName string

	// APIVersion is the REST API version.
	APIVersion string
}

// ApplyDefaults sets default values for unset fields.
func (c *AzureConfig) ApplyDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = "2023-11-01"
	}
}

// Validate validates the configuration.
func (c *AzureConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrInvalidConfig)
	}
	if c.IndexName == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidConfig)
	}
	return nil
}

// AzureBackend is a search Backend over the Azure AI Search REST API.
// The index is built and maintained out of band; this backend only queries.
type AzureBackend struct {
	config AzureConfig
	client *http.Client
	logger *zap.Logger
}

// NewAzureBackend creates an AzureBackend with the given configuration.
// The http.Client may be nil, in which case http.DefaultClient is used;
// per-call deadlines come from the caller's context.
func NewAzureBackend(cfg AzureConfig, client *http.Client, logger *zap.Logger) (*AzureBackend, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AzureBackend{
		config: cfg,
		client: client,
		logger: logger,
	}, nil
}

// azureSearchRequest is the REST search request body.
type azureSearchRequest struct {
	Search string `json:"search"`
	Top    int    `json:"top"`
}

// azureSearchResponse is the REST search response envelope. Each value is
// one index record; Azure's @search.* annotations ride along as fields.
type azureSearchResponse struct {
	Value []map[string]any `json:"value"`
}

// Search queries the index and returns records in Azure's relevance order.
func (b *AzureBackend) Search(ctx context.Context, query string, limit int) ([]invoice.Record, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		strings.TrimRight(b.config.Endpoint, "/"), b.config.IndexName, b.config.APIVersion)

	body, err := json.Marshal(azureSearchRequest{Search: query, Top: limit})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.config.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching index %s: %w", b.config.IndexName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded azureSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	records := make([]invoice.Record, 0, len(decoded.Value))
	for _, item := range decoded.Value {
		records = append(records, invoice.Record(item))
	}

	b.logger.Debug("searched azure index",
		zap.String("index", b.config.IndexName),
		zap.Int("results", len(records)),
	)
	return records, nil
}
