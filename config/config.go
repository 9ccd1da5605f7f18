// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package config loads the wmsretry configuration document.
//
// Values are layered, lowest priority first: built-in defaults, the YAML
// document, then environment variables prefixed with EnvPrefix.  In a
// variable name, a double underscore separates keys:
//
//	WMSRETRY_LOG__LEVEL=debug
//	WMSRETRY_SOURCES__OSM__RETRY__MAX_RETRIES=5
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/xmidt-org/wmsretry/logging"
	"github.com/xmidt-org/wmsretry/mapsource"
)

const (
	// EnvPrefix selects the environment variables that override the document.
	EnvPrefix = "WMSRETRY_"

	delimiter = "."
)

// Config is the root of the configuration document.
type Config struct {
	Log logging.Config `koanf:"log"`

	// Sources maps each source name onto its raw configuration block.
	// Every block carries a type key.
	Sources map[string]map[string]interface{} `koanf:"sources"`

	k *koanf.Koanf
}

// SourceNames returns the sorted names of the configured sources.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Koanf returns the merged configuration tree.
func (c *Config) Koanf() *koanf.Koanf {
	return c.k
}

// Load reads the YAML document at path.
func Load(path string) (*Config, error) {
	return load(file.Provider(path), path)
}

// LoadBytes reads a YAML document held in memory.
func LoadBytes(b []byte) (*Config, error) {
	return load(rawbytes.Provider(b), "document")
}

func load(p koanf.Provider, origin string) (*Config, error) {
	k := koanf.New(delimiter)
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", origin, err)
	}

	if err := k.Load(env.Provider(delimiter, env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.k = k
	if err := mapsource.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	for _, name := range cfg.SourceNames() {
		if cfg.Sources[name] == nil {
			return nil, fmt.Errorf("invalid configuration: source %q is empty", name)
		}
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]interface{}{
		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, delimiter), nil)
}

// transformEnv maps WMSRETRY_LOG__LEVEL onto log.level.  Single underscores
// are kept, since keys such as max_retries contain them.
func transformEnv(key, value string) (string, interface{}) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ReplaceAll(strings.ToLower(key), "__", delimiter)
	return key, value
}
