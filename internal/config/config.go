// Package config loads Todozi's YAML configuration, following the
// teacher's nested-struct-with-defaults convention: a DefaultConfig()
// establishes sane values, Load() overlays a config file (tdz.hlx, treated
// as YAML) on top, and HOME is required for the persistence root.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"todozi/internal/embedding"
	"todozi/internal/todozierr"
)

// Config is the root configuration object.
type Config struct {
	Storage   StorageConfig    `yaml:"storage"`
	Embedding embedding.Config `yaml:"embedding"`
	Server    ServerConfig     `yaml:"server"`
	Logging   LoggingConfig    `yaml:"logging"`
}

type StorageConfig struct {
	// Root overrides $HOME/.todozi when set.
	Root string `yaml:"root"`
}

type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Storage:   StorageConfig{},
		Embedding: embedding.DefaultConfig(),
		Server:    ServerConfig{BaseURL: "http://localhost:8787", TimeoutSeconds: 30},
		Logging:   LoggingConfig{Debug: false},
	}
}

// Load reads a YAML config file at path, overlaying it onto DefaultConfig.
// A missing file is not an error; it just means defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, todozierr.Config("read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, todozierr.Config("parse config file %s: %v", path, err)
	}
	return cfg, nil
}

// ResolveRoot returns the storage root: Storage.Root if set, else
// $HOME/.todozi. Errors if HOME is unset and no override was given.
func (c Config) ResolveRoot() (string, error) {
	if c.Storage.Root != "" {
		return c.Storage.Root, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", todozierr.Config("HOME is not set and no storage.root override was configured")
	}
	return home + "/.todozi", nil
}
