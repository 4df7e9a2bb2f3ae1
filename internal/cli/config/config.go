// Package config loads tool configuration from schemadoc.yaml with
// environment variable overrides
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the schemadoc configuration
type Config struct {
	Project  ProjectConfig  `mapstructure:"project"`
	Generate GenerateConfig `mapstructure:"generate"`
	Server   ServerConfig   `mapstructure:"server"`
}

// ProjectConfig describes the API the documents are generated for
type ProjectConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Description string `mapstructure:"description"`
}

// GenerateConfig configures document generation
type GenerateConfig struct {
	Descriptor string   `mapstructure:"descriptor"`
	Output     string   `mapstructure:"output"`
	Formats    []string `mapstructure:"formats"`
	MaxDepth   int      `mapstructure:"max_depth"`
}

// ServerConfig configures the document server
type ServerConfig struct {
	Host  string      `mapstructure:"host"`
	Port  int         `mapstructure:"port"`
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig configures the document server response cache
type CacheConfig struct {
	Backend   string `mapstructure:"backend"`
	RedisAddr string `mapstructure:"redis_addr"`
}

// Load loads the configuration from schemadoc.yaml or schemadoc.yml in the
// working directory; missing files fall back to defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("project.name", "API")
	v.SetDefault("project.version", "1.0.0")
	v.SetDefault("generate.descriptor", "typegraph.yaml")
	v.SetDefault("generate.output", "docs")
	v.SetDefault("generate.formats", []string{"json"})
	v.SetDefault("generate.max_depth", 0)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cache.backend", "memory")
	v.SetDefault("server.cache.redis_addr", "localhost:6379")

	v.SetConfigName("schemadoc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SCHEMADOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validate(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Generate.MaxDepth < 0 {
		return fmt.Errorf("generate.max_depth must not be negative, got %d", config.Generate.MaxDepth)
	}
	switch config.Server.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q (want memory, redis or none)", config.Server.Cache.Backend)
	}
	for _, format := range config.Generate.Formats {
		if format != "json" && format != "yaml" {
			return fmt.Errorf("unknown output format %q (want json or yaml)", format)
		}
	}
	return nil
}
