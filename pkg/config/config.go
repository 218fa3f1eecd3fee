package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xraph/beans/pkg/logger"
)

// Config controls container behavior.
type Config struct {
	// AllowDefinitionOverriding permits re-registering a name with a
	// structurally different definition (last write wins).
	AllowDefinitionOverriding bool `yaml:"allow_definition_overriding"`

	// AllowCircularReferences enables the early-reference path for
	// setter-style circular singletons. Constructor-style cycles always fail.
	AllowCircularReferences bool `yaml:"allow_circular_references"`

	// EagerInit pre-instantiates all non-lazy singletons on Start.
	EagerInit bool `yaml:"eager_init"`

	// MaxMergeDepth bounds parent-chain recursion during definition merging.
	MaxMergeDepth int `yaml:"max_merge_depth"`

	Logging logger.LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		AllowDefinitionOverriding: true,
		AllowCircularReferences:   false,
		EagerInit:                 true,
		MaxMergeDepth:             100,
		Logging: logger.LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFile reads configuration from a YAML file, applying defaults for
// anything the file does not set.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnv overlays BEANS_* environment variables onto cfg. A .env file in the
// working directory is loaded first if present; a missing file is not an error.
func LoadEnv(cfg Config) Config {
	_ = godotenv.Load()

	if v, ok := envBool("BEANS_ALLOW_DEFINITION_OVERRIDING"); ok {
		cfg.AllowDefinitionOverriding = v
	}
	if v, ok := envBool("BEANS_ALLOW_CIRCULAR_REFERENCES"); ok {
		cfg.AllowCircularReferences = v
	}
	if v, ok := envBool("BEANS_EAGER_INIT"); ok {
		cfg.EagerInit = v
	}
	if v, ok := os.LookupEnv("BEANS_MAX_MERGE_DEPTH"); ok {
		if depth, err := strconv.Atoi(v); err == nil && depth > 0 {
			cfg.MaxMergeDepth = depth
		}
	}
	if v, ok := os.LookupEnv("BEANS_LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv("BEANS_LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}
	if v, ok := os.LookupEnv("BEANS_LOG_OUTPUT"); ok {
		cfg.Logging.Output = v
	}

	return cfg
}

func envBool(key string) (bool, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return value, true
}
