package search

import (
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/invoiceqa/internal/config"
)

// NewBackend constructs the search backend selected by configuration.
//
// For the chromem provider an embedding function may be supplied; when nil,
// OpenAI embeddings are used with the LLM API key. The azure provider needs
// no embedder since the external index ranks server-side.
func NewBackend(cfg *config.Config, embed chromem.EmbeddingFunc, logger *zap.Logger) (Backend, error) {
	switch cfg.Search.Provider {
	case config.SearchProviderChromem:
		if embed == nil {
			embed = chromem.NewEmbeddingFuncOpenAI(cfg.LLM.APIKey, chromem.EmbeddingModelOpenAI3Small)
		}
		return NewChromemBackend(ChromemConfig{
			Path:       cfg.Search.Chromem.Path,
			Collection: cfg.Search.Chromem.Collection,
			Compress:   cfg.Search.Chromem.Compress,
		}, embed, logger)

	case config.SearchProviderAzure:
		return NewAzureBackend(AzureConfig{
			Endpoint:   cfg.Search.Azure.Endpoint,
			APIKey:     cfg.Search.Azure.APIKey,
			IndexName:  cfg.Search.Azure.IndexName,
			APIVersion: cfg.Search.Azure.APIVersion,
		}, nil, logger)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Search.Provider)
	}
}
