package config

import (
	"fmt"
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for MartScout. It is loaded once at
// process start and treated as immutable afterwards.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Search  SearchConfig  `mapstructure:"search"  yaml:"search"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Debug   DebugConfig   `mapstructure:"debug"   yaml:"debug"`
}

// ServerConfig controls the API serving process.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// Addr returns the bind address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless       bool          `mapstructure:"headless"        yaml:"headless"`
	Stealth        bool          `mapstructure:"stealth"         yaml:"stealth"`
	NavTimeout     time.Duration `mapstructure:"nav_timeout"     yaml:"nav_timeout"`
	WaitTimeout    time.Duration `mapstructure:"wait_timeout"    yaml:"wait_timeout"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"    yaml:"settle_delay"`
	ScrollCount    int           `mapstructure:"scroll_count"    yaml:"scroll_count"`
	ScrollDelay    time.Duration `mapstructure:"scroll_delay"    yaml:"scroll_delay"`
	ViewportWidth  int           `mapstructure:"viewport_width"  yaml:"viewport_width"`
	ViewportHeight int           `mapstructure:"viewport_height" yaml:"viewport_height"`
	UserAgent      string        `mapstructure:"user_agent"      yaml:"user_agent"`
}

// SearchConfig controls target URL construction.
type SearchConfig struct {
	BaseURL           string `mapstructure:"base_url"            yaml:"base_url"`
	DefaultLocationID string `mapstructure:"default_location_id" yaml:"default_location_id"`
	Locale            string `mapstructure:"locale"              yaml:"locale"`
}

// FetcherConfig selects and tunes the page fetcher.
type FetcherConfig struct {
	// Type is "browser" (headless Chromium) or "http" (plain GET, for
	// static snapshots — no scrolling, no screenshots).
	Type            string        `mapstructure:"type"              yaml:"type"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DebugConfig controls the out-of-band diagnostic artifacts.
type DebugConfig struct {
	Enabled     bool   `mapstructure:"enabled"      yaml:"enabled"`
	ArtifactDir string `mapstructure:"artifact_dir" yaml:"artifact_dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Browser: BrowserConfig{
			Headless:       true,
			Stealth:        false,
			NavTimeout:     30 * time.Second,
			WaitTimeout:    15 * time.Second,
			SettleDelay:    2 * time.Second,
			ScrollCount:    3,
			ScrollDelay:    1500 * time.Millisecond,
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Search: SearchConfig{
			BaseURL:           "https://www.facebook.com",
			DefaultLocationID: "108339199186201", // UK region
			Locale:            "en_GB",
		},
		Fetcher: FetcherConfig{
			Type:            "browser",
			RequestTimeout:  30 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			FollowRedirects: true,
			MaxRedirects:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Debug: DebugConfig{
			Enabled:     false,
			ArtifactDir: ".",
		},
	}
}

// Validate checks the configuration for values that cannot work.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Server.Port)
	}
	if cfg.Browser.ScrollCount < 0 {
		return fmt.Errorf("browser.scroll_count must be >= 0, got %d", cfg.Browser.ScrollCount)
	}
	if cfg.Browser.NavTimeout <= 0 {
		return fmt.Errorf("browser.nav_timeout must be positive, got %s", cfg.Browser.NavTimeout)
	}
	if cfg.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url must not be empty")
	}
	if cfg.Search.DefaultLocationID == "" {
		return fmt.Errorf("search.default_location_id must not be empty")
	}
	switch cfg.Fetcher.Type {
	case "browser", "http":
	default:
		return fmt.Errorf("fetcher.type must be \"browser\" or \"http\", got %q", cfg.Fetcher.Type)
	}
	return nil
}
