package config

import (
	"time"

	"github.com/Ravou/Neurograph/internal/llm"
)

// DefaultConfig returns a Config with working local defaults: a local
// Neo4j instance and an ollama provider, so a development setup needs no
// config file at all.
func DefaultConfig() *Config {
	return &Config{
		Neo4j: Neo4jConfig{
			URI:               "bolt://localhost:7687",
			Username:          "neo4j",
			Password:          "neo4j",
			MaxConnections:    50,
			ConnectionTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Default: "ollama",
			Providers: map[string]llm.ProviderConfig{
				"ollama": {
					Type:    "ollama",
					BaseURL: "http://localhost:11434",
					Model:   "llama3",
				},
			},
		},
		Retrieval: RetrievalConfig{
			DefaultLimit:        5,
			AcceptanceThreshold: 0.6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "neurograph",
		},
	}
}

// defaultSettings feeds viper's defaults so a partial config file only has
// to name what it changes.
func defaultSettings() map[string]any {
	return map[string]any{
		"neo4j.uri":                      "bolt://localhost:7687",
		"neo4j.username":                 "neo4j",
		"neo4j.password":                 "neo4j",
		"neo4j.max_connections":          50,
		"neo4j.connection_timeout":       "30s",
		"retrieval.default_limit":        5,
		"retrieval.acceptance_threshold": 0.6,
		"logging.level":                  "info",
		"logging.format":                 "json",
		"tracing.enabled":                false,
		"tracing.service_name":           "neurograph",
	}
}
