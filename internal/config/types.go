// Package config provides configuration loading for invoiceqa.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/invoiceqa/internal/logging"
)

// Search backend providers.
const (
	SearchProviderChromem = "chromem"
	SearchProviderAzure   = "azure"
)

// LLM providers.
const (
	LLMProviderOpenAI = "openai"
	LLMProviderAzure  = "azure"
)

// Agent modes.
const (
	AgentModeFull   = "full"
	AgentModeSimple = "simple"
)

// Config is the root configuration.
type Config struct {
	Log    logging.Config `koanf:"log"`
	LLM    LLMConfig      `koanf:"llm"`
	Search SearchConfig   `koanf:"search"`
	Agent  AgentConfig    `koanf:"agent"`
}

// LLMConfig configures the language-model backend.
type LLMConfig struct {
	// Provider is "openai" or "azure".
	Provider string `koanf:"provider"`

	// BaseURL is the API endpoint. For Azure this is the resource endpoint.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates against the provider.
	APIKey string `koanf:"api_key"`

	// Model is the model name, or the deployment name on Azure.
	Model string `koanf:"model"`

	// APIVersion is the Azure API version. Ignored for plain OpenAI.
	APIVersion string `koanf:"api_version"`

	// Temperature for completions.
	Temperature float64 `koanf:"temperature"`

	// Timeout bounds a single completion call.
	Timeout time.Duration `koanf:"timeout"`
}

// SearchConfig configures the search backend.
type SearchConfig struct {
	// Provider is "chromem" (embedded, default) or "azure".
	Provider string `koanf:"provider"`

	// TopK is the maximum number of ranked documents per query.
	TopK int `koanf:"top_k"`

	// Timeout bounds a single search call.
	Timeout time.Duration `koanf:"timeout"`

	Chromem ChromemConfig     `koanf:"chromem"`
	Azure   AzureSearchConfig `koanf:"azure"`
}

// ChromemConfig configures the embedded chromem-go index.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	Path string `koanf:"path"`

	// Collection is the collection name invoices are stored in.
	Collection string `koanf:"collection"`

	// Compress enables gzip compression for stored data.
	Compress bool `koanf:"compress"`
}

// AzureSearchConfig configures an external Azure AI Search index.
type AzureSearchConfig struct {
	Endpoint   string `koanf:"endpoint"`
	APIKey     string `koanf:"api_key"`
	IndexName  string `koanf:"index_name"`
	APIVersion string `koanf:"api_version"`
}

// AgentConfig configures the answering pipeline.
type AgentConfig struct {
	// Mode is "full" (tool-using agent) or "simple" (one-shot retrieval QA).
	Mode string `koanf:"mode"`

	// Memory enables conversational memory in full mode.
	Memory bool `koanf:"memory"`

	// Logging enables the per-query execution log.
	Logging bool `koanf:"logging"`

	// MaxIterations caps the tool-using agent's reasoning loop.
	MaxIterations int `koanf:"max_iterations"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	switch c.LLM.Provider {
	case LLMProviderOpenAI, LLMProviderAzure:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", LLMProviderOpenAI, LLMProviderAzure, c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Provider == LLMProviderAzure && c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required for the azure provider")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be > 0")
	}

	switch c.Search.Provider {
	case SearchProviderChromem:
		if c.Search.Chromem.Path == "" {
			return fmt.Errorf("search.chromem.path is required")
		}
		if c.Search.Chromem.Collection == "" {
			return fmt.Errorf("search.chromem.collection is required")
		}
	case SearchProviderAzure:
		if c.Search.Azure.Endpoint == "" {
			return fmt.Errorf("search.azure.endpoint is required")
		}
		if c.Search.Azure.IndexName == "" {
			return fmt.Errorf("search.azure.index_name is required")
		}
	default:
		return fmt.Errorf("search.provider must be %q or %q, got %q", SearchProviderChromem, SearchProviderAzure, c.Search.Provider)
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be > 0")
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be > 0")
	}

	switch c.Agent.Mode {
	case AgentModeFull, AgentModeSimple:
	default:
		return fmt.Errorf("agent.mode must be %q or %q, got %q", AgentModeFull, AgentModeSimple, c.Agent.Mode)
	}
	if c.Agent.MaxIterations <= 0 {
		return fmt.Errorf("agent.max_iterations must be > 0")
	}

	return nil
}
