package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/Ravou/Neurograph/internal/types"
)

// Loader reads configuration files.
type Loader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

type viperLoader struct{}

// NewLoader creates a YAML configuration loader.
func NewLoader() Loader {
	return &viperLoader{}
}

// Load reads and validates the configuration at path. Fails when the file
// is missing or malformed.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for key, value := range defaultSettings() {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			fmt.Sprintf("cannot read config file %s", path), err)
	}

	// ${VAR} references are interpolated on the raw settings before
	// unmarshaling, so every string field gets the same treatment.
	for _, key := range v.AllKeys() {
		if s, ok := v.Get(key).(string); ok {
			v.Set(key, interpolateString(s))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			"cannot unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithDefaults reads the configuration at path, or returns the default
// configuration when no file exists there.
func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return l.Load(path)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateString replaces ${VAR_NAME} with the environment variable's
// value, leaving unset references untouched.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if value := os.Getenv(name); value != "" {
			return value
		}
		return match
	})
}
