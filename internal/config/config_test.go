package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ravou/Neurograph/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeConfig(t, `
neo4j:
  uri: bolt://graph.internal:7687
  username: svc
  password: secret
  max_connections: 25
  connection_timeout: 10s
llm:
  default: openai
  providers:
    openai:
      type: openai
      api_key: sk-test
      model: gpt-4o
retrieval:
  default_limit: 8
  acceptance_threshold: 0.7
logging:
  level: debug
  format: text
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, 25, cfg.Neo4j.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Neo4j.ConnectionTimeout)
	assert.Equal(t, 8, cfg.Retrieval.DefaultLimit)
	assert.Equal(t, 0.7, cfg.Retrieval.AcceptanceThreshold)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())

	provider, err := cfg.LLM.DefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Type)
	assert.Equal(t, "gpt-4o", provider.Model)
}

func TestLoader_Load_EnvInterpolation(t *testing.T) {
	t.Setenv("NEO4J_PASSWORD", "from-env")
	path := writeConfig(t, `
neo4j:
  uri: bolt://localhost:7687
  password: ${NEO4J_PASSWORD}
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Neo4j.Password)
}

func TestLoader_Load_UnsetEnvVarLeftVerbatim(t *testing.T) {
	path := writeConfig(t, `
neo4j:
  uri: bolt://localhost:7687
  password: ${DEFINITELY_NOT_SET_ANYWHERE}
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${DEFINITELY_NOT_SET_ANYWHERE}", cfg.Neo4j.Password)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CONFIG_LOAD_FAILED))
}

func TestLoader_LoadWithDefaults_MissingFile(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, 5, cfg.Retrieval.DefaultLimit)
	assert.Equal(t, "ollama", cfg.LLM.Default)
}

func TestLoader_Load_PartialFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, `
neo4j:
  uri: bolt://graph.internal:7687
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bolt://graph.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, 5, cfg.Retrieval.DefaultLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errCode types.ErrorCode
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing uri",
			mutate:  func(c *Config) { c.Neo4j.URI = " " },
			errCode: types.CONFIG_VALIDATION_FAILED,
		},
		{
			name:    "negative limit",
			mutate:  func(c *Config) { c.Retrieval.DefaultLimit = -1 },
			errCode: types.CONFIG_VALIDATION_FAILED,
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.Retrieval.AcceptanceThreshold = 1.5 },
			errCode: types.CONFIG_VALIDATION_FAILED,
		},
		{
			name:    "default names unknown provider",
			mutate:  func(c *Config) { c.LLM.Default = "missing" },
			errCode: types.CONFIG_VALIDATION_FAILED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, types.IsCode(err, tt.errCode))
		})
	}
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LoggingConfig{Level: tt.level}.SlogLevel())
	}
}
