package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/invoiceqa/internal/logging"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// Load loads configuration from an optional YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (LLM_API_KEY, SEARCH_TOP_K, AGENT_MODE, ...)
//  2. YAML config file (configPath; skipped when empty or missing)
//  3. Hardcoded defaults
//
// Environment variables use underscore separator and are uppercased; the
// transformer splits on the first underscore into section and field:
//
//	LLM_API_KEY        -> llm.api_key
//	SEARCH_TOP_K       -> search.top_k
//	AGENT_MAX_ITERATIONS -> agent.max_iterations
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil {
			if info.Size() > maxConfigFileSize {
				return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
			}
			content, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	// Override with environment variables.
	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envSections maps underscored section prefixes to their dotted form,
// longest first so SEARCH_AZURE_API_KEY resolves to search.azure.api_key
// rather than search.azure_api_key. Underscores after the section prefix
// belong to the field name and are kept.
var envSections = []struct {
	prefix string
	dotted string
}{
	{"log_output_file", "log.output.file"},
	{"log_output", "log.output"},
	{"search_azure", "search.azure"},
	{"search_chromem", "search.chromem"},
	{"log", "log"},
	{"llm", "llm"},
	{"search", "search"},
	{"agent", "agent"},
}

// envTransform maps an environment variable name to a config key.
//
//	LLM_API_KEY             -> llm.api_key
//	SEARCH_TOP_K            -> search.top_k
//	SEARCH_AZURE_INDEX_NAME -> search.azure.index_name
func envTransform(s string) string {
	lower := strings.ToLower(s)
	for _, sec := range envSections {
		if strings.HasPrefix(lower, sec.prefix+"_") {
			return sec.dotted + "." + lower[len(sec.prefix)+1:]
		}
	}
	return lower
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	// Logging defaults
	def := logging.NewDefaultConfig()
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Format
	}
	if !cfg.Log.Output.Stdout && !cfg.Log.Output.File.Enabled {
		cfg.Log.Output = def.Output
	}
	if cfg.Log.Fields == nil {
		cfg.Log.Fields = def.Fields
	}

	// LLM defaults
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = LLMProviderOpenAI
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.Provider == LLMProviderAzure && cfg.LLM.APIVersion == "" {
		cfg.LLM.APIVersion = "2024-02-01"
	}

	// Search defaults
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = SearchProviderChromem
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 5
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 15 * time.Second
	}
	if cfg.Search.Chromem.Path == "" {
		cfg.Search.Chromem.Path = "~/.config/invoiceqa/index"
	}
	if cfg.Search.Chromem.Collection == "" {
		cfg.Search.Chromem.Collection = "invoices"
	}
	if cfg.Search.Azure.APIVersion == "" {
		cfg.Search.Azure.APIVersion = "2023-11-01"
	}

	// Agent defaults
	if cfg.Agent.Mode == "" {
		cfg.Agent.Mode = AgentModeFull
	}
	if cfg.Agent.MaxIterations == 0 {
		cfg.Agent.MaxIterations = 5
	}
}
