package config

import (
	"os"
	"sort"
)

// RequiredKeys returns the environment variable names the assistant cannot
// run without, given the configured providers. The presentation shell uses
// these with Presence and AllPresent to render a configuration status
// signal before the user initializes an agent.
func RequiredKeys(cfg *Config) []string {
	keys := []string{"LLM_API_KEY"}

	if cfg.LLM.Provider == LLMProviderAzure {
		keys = append(keys, "LLM_BASE_URL", "LLM_MODEL")
	}
	if cfg.Search.Provider == SearchProviderAzure {
		keys = append(keys,
			"SEARCH_AZURE_ENDPOINT",
			"SEARCH_AZURE_API_KEY",
			"SEARCH_AZURE_INDEX_NAME",
		)
	}

	sort.Strings(keys)
	return keys
}

// Presence reports, for each key, whether lookup returns a non-empty value.
// Pass os.LookupEnv (or EnvLookup) to check the process environment.
func Presence(keys []string, lookup func(string) (string, bool)) map[string]bool {
	present := make(map[string]bool, len(keys))
	for _, key := range keys {
		v, ok := lookup(key)
		present[key] = ok && v != ""
	}
	return present
}

// AllPresent reports whether every entry in the presence mapping is true.
// An empty mapping is vacuously complete.
func AllPresent(present map[string]bool) bool {
	for _, ok := range present {
		if !ok {
			return false
		}
	}
	return true
}

// EnvLookup is the standard lookup for Presence.
func EnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}
