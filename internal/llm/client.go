// Package llm constructs chat model clients from configuration.
package llm

import (
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/fyrsmithlabs/invoiceqa/internal/config"
)

// ErrUnknownProvider is returned for a provider outside the supported set.
var ErrUnknownProvider = errors.New("llm: unknown provider")

// New builds a chat model client for the configured provider. The openai
// provider talks to api.openai.com unless a base URL is set; the azure
// provider requires a deployment base URL and an API version.
func New(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: api key is required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	switch cfg.Provider {
	case config.LLMProviderOpenAI:
	case config.LLMProviderAzure:
		if cfg.BaseURL == "" {
			return nil, errors.New("llm: azure provider requires a base url")
		}
		opts = append(opts,
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithAPIVersion(cfg.APIVersion),
		)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: creating client: %w", err)
	}
	return client, nil
}
