// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestNew(t *testing.T) {
	const (
		expectListen        = ":3000"
		expectLogLevel      = slog.LevelInfo
		expectCacheTTL      = time.Hour * 24
		expectCacheEntries  = 1000
		expectPrecision     = 4
		expectTimeout       = time.Second * 10
		expectCooldown      = time.Minute
		expectBatchMax      = 100
		expectDefaultLang   = "en"
		expectSupportedLang = 8
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Listen != expectListen {
			t.Errorf("expected listen address to be: %s, got %s", expectListen, conf.Listen)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Cache.TTL != expectCacheTTL {
			t.Errorf("expected cache TTL to be: %s, got %s", expectCacheTTL, conf.Cache.TTL)
		}
		if conf.Cache.MaxEntries != expectCacheEntries {
			t.Errorf("expected cache max entries to be: %d, got %d", expectCacheEntries, conf.Cache.MaxEntries)
		}
		if conf.Cache.Precision != expectPrecision {
			t.Errorf("expected cache precision to be: %d, got %d", expectPrecision, conf.Cache.Precision)
		}
		if conf.Providers.Timeout != expectTimeout {
			t.Errorf("expected provider timeout to be: %s, got %s", expectTimeout, conf.Providers.Timeout)
		}
		if conf.Providers.Cooldown != expectCooldown {
			t.Errorf("expected provider cooldown to be: %s, got %s", expectCooldown, conf.Providers.Cooldown)
		}
		if conf.Batch.MaxSize != expectBatchMax {
			t.Errorf("expected batch max size to be: %d, got %d", expectBatchMax, conf.Batch.MaxSize)
		}
		if conf.Languages.Default != expectDefaultLang {
			t.Errorf("expected default language to be: %s, got %s", expectDefaultLang, conf.Languages.Default)
		}
		if len(conf.Languages.Supported) != expectSupportedLang {
			t.Errorf("expected %d supported languages, got %d", expectSupportedLang,
				len(conf.Languages.Supported))
		}
	})
	t.Run("provider credentials from env", func(t *testing.T) {
		t.Setenv("REVGEOD_PROVIDERS_GOOGLEMAPS_API_KEY", "test-gm-key")
		t.Setenv("REVGEOD_PROVIDERS_MAPBOX_ACCESS_TOKEN", "test-mb-token")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Providers.GoogleMapsAPIKey != "test-gm-key" {
			t.Errorf("expected Google Maps API key to be set, got %q", conf.Providers.GoogleMapsAPIKey)
		}
		if conf.Providers.MapboxAccessToken != "test-mb-token" {
			t.Errorf("expected Mapbox access token to be set, got %q", conf.Providers.MapboxAccessToken)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("REVGEOD_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate cache settings", func(t *testing.T) {
		t.Setenv("REVGEOD_CACHE_MAX_ENTRIES", "0")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
		t.Setenv("REVGEOD_CACHE_MAX_ENTRIES", "1000")
		t.Setenv("REVGEOD_CACHE_PRECISION", "9")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate batch size", func(t *testing.T) {
		t.Setenv("REVGEOD_BATCH_MAX_SIZE", "0")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate languages", func(t *testing.T) {
		t.Setenv("REVGEOD_LANGUAGES_DEFAULT", "no-such-language-tag!")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("load config from file", func(t *testing.T) {
		dir := t.TempDir()
		content := "listen = \":8085\"\n\n[cache]\nttl = \"1h\"\nprecision = 2\n"
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config file: %s", err)
		}
		conf, err := NewFromFile(dir, "config.toml")
		if err != nil {
			t.Fatalf("failed to load config from file: %s", err)
		}
		if conf.Listen != ":8085" {
			t.Errorf("expected listen address to be :8085, got %s", conf.Listen)
		}
		if conf.Cache.TTL != time.Hour {
			t.Errorf("expected cache TTL to be 1h, got %s", conf.Cache.TTL)
		}
		if conf.Cache.Precision != 2 {
			t.Errorf("expected cache precision to be 2, got %d", conf.Cache.Precision)
		}
	})
	t.Run("load config from non-existent file fails", func(t *testing.T) {
		if _, err := NewFromFile(t.TempDir(), "config.toml"); err == nil {
			t.Error("expected config load to fail, but didn't")
		}
	})
}

func TestConfig_Tags(t *testing.T) {
	t.Run("supported and default tags parse", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if got := conf.DefaultTag(); got != language.English {
			t.Errorf("expected default tag to be %s, got %s", language.English, got)
		}
		tags := conf.SupportedTags()
		if len(tags) != len(conf.Languages.Supported) {
			t.Errorf("expected %d supported tags, got %d", len(conf.Languages.Supported), len(tags))
		}
	})
}
