// Package config loads and validates the engine configuration from YAML,
// with ${VAR} environment interpolation and full defaults when no file is
// present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/Ravou/Neurograph/internal/types"
)

// Config is the root configuration.
type Config struct {
	Neo4j     Neo4jConfig     `mapstructure:"neo4j" yaml:"neo4j"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Retrieval RetrievalConfig `mapstructure:"retrieval" yaml:"retrieval"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Tracing   TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
}

// Neo4jConfig contains graph database connection settings.
type Neo4jConfig struct {
	URI               string        `mapstructure:"uri" yaml:"uri"`
	Username          string        `mapstructure:"username" yaml:"username"`
	Password          string        `mapstructure:"password" yaml:"password"`
	Database          string        `mapstructure:"database" yaml:"database"`
	MaxConnections    int           `mapstructure:"max_connections" yaml:"max_connections"`
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout" yaml:"connection_timeout"`
}

// ClientConfig maps the section onto the graph client's configuration.
func (c Neo4jConfig) ClientConfig() graph.GraphClientConfig {
	cfg := graph.DefaultConfig()
	cfg.URI = c.URI
	cfg.Username = c.Username
	cfg.Password = c.Password
	cfg.Database = c.Database
	if c.MaxConnections > 0 {
		cfg.MaxConnectionPoolSize = c.MaxConnections
	}
	if c.ConnectionTimeout > 0 {
		cfg.ConnectionTimeout = c.ConnectionTimeout
	}
	return cfg
}

// LLMConfig contains completion provider configuration. Providers are named
// sections; Default selects the one the proposal pipeline uses.
type LLMConfig struct {
	Default   string                        `mapstructure:"default" yaml:"default"`
	Providers map[string]llm.ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// DefaultProvider returns the selected provider section.
func (c LLMConfig) DefaultProvider() (llm.ProviderConfig, error) {
	cfg, ok := c.Providers[c.Default]
	if !ok {
		return llm.ProviderConfig{}, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("llm.default %q names no configured provider", c.Default))
	}
	return cfg, nil
}

// RetrievalConfig tunes the retrieval engine and the entity resolver.
type RetrievalConfig struct {
	DefaultLimit        int     `mapstructure:"default_limit" yaml:"default_limit"`
	AcceptanceThreshold float64 `mapstructure:"acceptance_threshold" yaml:"acceptance_threshold"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// NewLogger builds a slog.Logger per the section, text or json on stderr.
func (c LoggingConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// SlogLevel maps the configured level string onto a slog.Level.
// Unknown levels fall back to info.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TracingConfig contains span emission configuration.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Neo4j.URI) == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "neo4j.uri is required")
	}
	if c.Retrieval.DefaultLimit < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"retrieval.default_limit must not be negative")
	}
	if c.Retrieval.AcceptanceThreshold < 0 || c.Retrieval.AcceptanceThreshold > 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"retrieval.acceptance_threshold must be in [0, 1]")
	}
	if c.LLM.Default != "" {
		cfg, err := c.LLM.DefaultProvider()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return types.WrapError(types.CONFIG_VALIDATION_FAILED,
				fmt.Sprintf("llm provider %q", c.LLM.Default), err)
		}
	}
	return nil
}
