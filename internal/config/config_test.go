package config

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Server.Addr(); got != "0.0.0.0:8000" {
		t.Errorf("server addr = %q, want 0.0.0.0:8000", got)
	}
	if cfg.Browser.ScrollCount != 3 {
		t.Errorf("scroll_count = %d, want 3", cfg.Browser.ScrollCount)
	}
	if cfg.Search.DefaultLocationID == "" {
		t.Error("default location id must be set")
	}
	if cfg.Search.Locale != "en_GB" {
		t.Errorf("locale = %q, want en_GB", cfg.Search.Locale)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"negative scrolls", func(c *Config) { c.Browser.ScrollCount = -1 }, "scroll_count"},
		{"zero nav timeout", func(c *Config) { c.Browser.NavTimeout = 0 }, "nav_timeout"},
		{"empty base url", func(c *Config) { c.Search.BaseURL = "" }, "base_url"},
		{"empty location", func(c *Config) { c.Search.DefaultLocationID = "" }, "location"},
		{"bad fetcher type", func(c *Config) { c.Fetcher.Type = "carrier-pigeon" }, "fetcher.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MARTSCOUT_SERVER_PORT", "9001")
	t.Setenv("MARTSCOUT_SEARCH_LOCALE", "en_US")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("env port override not applied: %d", cfg.Server.Port)
	}
	if cfg.Search.Locale != "en_US" {
		t.Errorf("env locale override not applied: %q", cfg.Search.Locale)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load("/nonexistent/martscout.yaml"); err == nil {
		t.Fatal("explicitly named missing config file must error")
	}
}
