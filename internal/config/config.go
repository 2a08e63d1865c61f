// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"
	"golang.org/x/text/language"
)

const configEnv = "REVGEOD"

// Config represents the service's configuration structure.
type Config struct {
	Listen   string     `fig:"listen" default:":3000"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	HTTP struct {
		ReadTimeout     time.Duration `fig:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `fig:"write_timeout" default:"30s"`
		IdleTimeout     time.Duration `fig:"idle_timeout" default:"60s"`
		ShutdownTimeout time.Duration `fig:"shutdown_timeout" default:"10s"`
	} `fig:"http"`

	Providers struct {
		GoogleMapsAPIKey  string `fig:"googlemaps_api_key"`
		MapboxAccessToken string `fig:"mapbox_access_token"`
		// Timeout applies to every single outbound provider call
		Timeout time.Duration `fig:"timeout" default:"10s"`
		// Cooldown is how long a rate-limited provider is skipped
		Cooldown time.Duration `fig:"cooldown" default:"60s"`
	} `fig:"providers"`

	Cache struct {
		TTL        time.Duration `fig:"ttl" default:"24h"`
		MaxEntries int           `fig:"max_entries" default:"1000"`
		// Precision is the number of decimal places coordinates are rounded
		// to when forming cache keys (4 ≈ 11m at the equator)
		Precision     int           `fig:"precision" default:"4"`
		SweepInterval time.Duration `fig:"sweep_interval" default:"5m"`
	} `fig:"cache"`

	Languages struct {
		Supported []string `fig:"supported" default:"[en,de,fr,es,it,pt,nl,hi]"`
		Default   string   `fig:"default" default:"en"`
	} `fig:"languages"`

	Batch struct {
		MaxSize int `fig:"max_size" default:"100"`
	} `fig:"batch"`
}

// NewFromFile loads the Config from the given file and applies environment overrides.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// New loads the Config from defaults and environment variables only.
func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("invalid provider timeout: %s", c.Providers.Timeout)
	}
	if c.Providers.Cooldown < 0 {
		return fmt.Errorf("invalid provider cooldown: %s", c.Providers.Cooldown)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("invalid cache TTL: %s", c.Cache.TTL)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("invalid cache max entries: %d", c.Cache.MaxEntries)
	}
	if c.Cache.Precision < 0 || c.Cache.Precision > 8 {
		return fmt.Errorf("invalid cache precision: %d", c.Cache.Precision)
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("invalid cache sweep interval: %s", c.Cache.SweepInterval)
	}
	if c.Batch.MaxSize < 1 {
		return fmt.Errorf("invalid batch max size: %d", c.Batch.MaxSize)
	}
	if len(c.Languages.Supported) == 0 {
		return fmt.Errorf("at least one supported language is required")
	}
	for _, lang := range c.Languages.Supported {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("invalid supported language %q: %w", lang, err)
		}
	}
	if _, err := language.Parse(c.Languages.Default); err != nil {
		return fmt.Errorf("invalid default language %q: %w", c.Languages.Default, err)
	}

	return nil
}

// SupportedTags returns the configured supported languages as parsed tags.
// Validate must have been called before.
func (c *Config) SupportedTags() []language.Tag {
	tags := make([]language.Tag, 0, len(c.Languages.Supported))
	for _, lang := range c.Languages.Supported {
		tags = append(tags, language.Make(lang))
	}
	return tags
}

// DefaultTag returns the configured default language as a parsed tag.
// Validate must have been called before.
func (c *Config) DefaultTag() language.Tag {
	return language.Make(c.Languages.Default)
}
