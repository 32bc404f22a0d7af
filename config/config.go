package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration read from a TOML string such as "250ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type ServerConfig struct {
	Port    int    `toml:"port"`
	BaseURL string `toml:"base_url"`
	// FrameAncestors lists the origins allowed to embed the widget pages
	FrameAncestors []string `toml:"frame_ancestors"`
}

type HostConfig struct {
	AppSecret string `toml:"app_secret"` // Signs the instance parameter
	TrialDays int    `toml:"trial_days"`
}

type PersistenceConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

type WidgetConfig struct {
	ResizeDebounce     Duration `toml:"resize_debounce"`
	FullWidthThreshold float64  `toml:"full_width_threshold"`
	MaxRenderWidth     int      `toml:"max_render_width"` // 0 keeps natural size
	RegistryTTL        Duration `toml:"registry_ttl"`
	ProbeTimeout       Duration `toml:"probe_timeout"`
	MediaHosts         []string `toml:"media_hosts"`         // empty allows any public host
	AllowPrivateMedia  bool     `toml:"allow_private_media"` // probe loopback and private addresses
}

type RateLimitConfig struct {
	Requests int      `toml:"requests"`
	Window   Duration `toml:"window"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Host        HostConfig        `toml:"host"`
	Persistence PersistenceConfig `toml:"persistence"`
	Widget      WidgetConfig      `toml:"widget"`
	RateLimit   RateLimitConfig   `toml:"ratelimit"`
	Log         LogConfig         `toml:"log"`
}

// Default returns the configuration used for keys missing from the file
func Default() *Config {
	var config Config

	config.Server.Port = 3000
	config.Host.TrialDays = 10

	config.Persistence.Timeout = Duration{5 * time.Second}

	config.Widget.ResizeDebounce = Duration{250 * time.Millisecond}
	config.Widget.FullWidthThreshold = 10
	config.Widget.RegistryTTL = Duration{24 * time.Hour}
	config.Widget.ProbeTimeout = Duration{5 * time.Second}

	config.RateLimit.Requests = 120
	config.RateLimit.Window = Duration{time.Minute}

	config.Log.Level = "info"
	config.Log.Format = "console"
	return &config
}

func LoadConfig(filepath string) (*Config, error) {
	config := Default()

	// Load config file
	if _, err := toml.DecodeFile(filepath, config); err != nil {
		return nil, err
	}

	config.Server.BaseURL = strings.TrimRight(config.Server.BaseURL, "/")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return config, nil
}

// Validate checks the values the widget cannot run without
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Widget.ResizeDebounce.Duration <= 0 {
		return fmt.Errorf("widget.resize_debounce must be positive")
	}
	if c.Widget.FullWidthThreshold < 0 {
		return fmt.Errorf("widget.full_width_threshold must not be negative")
	}
	if strings.TrimSpace(c.Host.AppSecret) == "" {
		return fmt.Errorf("host.app_secret is required")
	}
	if strings.TrimSpace(c.Persistence.Endpoint) == "" {
		return fmt.Errorf("persistence.endpoint is required")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window.Duration <= 0 {
		return fmt.Errorf("ratelimit requests and window must be positive")
	}
	return nil
}

// GetSecurityHeaders returns the headers set on every response. The pages
// live inside the host's iframe, so framing is restricted with CSP
// frame-ancestors instead of X-Frame-Options.
func (c *Config) GetSecurityHeaders() map[string]string {
	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	if len(c.Server.FrameAncestors) > 0 {
		headers["Content-Security-Policy"] = "frame-ancestors " + strings.Join(c.Server.FrameAncestors, " ")
	}
	return headers
}
