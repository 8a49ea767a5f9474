// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/ig-profile-api/internal/profile"
)

// DefaultUserAgent is a current desktop Chrome string; the upstream rejects obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// UpstreamConfig points at the profile host and the identity presented to it.
type UpstreamConfig struct {
	ProfileAPIURL string `mapstructure:"profile_api_url"`
	WebBaseURL    string `mapstructure:"web_base_url"`
	UserAgent     string `mapstructure:"user_agent"`
	AppID         string `mapstructure:"app_id"`
	ASBDID        string `mapstructure:"asbd_id"`
	WWWClaim      string `mapstructure:"www_claim"`
}

// CORSConfig lists origins allowed to call the API. "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IGPROFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Container platforms hand us the listen port as PORT.
	if err := v.BindEnv("server.port", "IGPROFILE_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind server.port env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("upstream.profile_api_url", "https://www.instagram.com/api/v1/users/web_profile_info/")
	v.SetDefault("upstream.web_base_url", "https://www.instagram.com")
	v.SetDefault("upstream.user_agent", DefaultUserAgent)
	v.SetDefault("upstream.app_id", "936619743392459")
	v.SetDefault("upstream.asbd_id", "198387")
	v.SetDefault("upstream.www_claim", "0")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if err := validateHTTPURL(c.Upstream.ProfileAPIURL); err != nil {
		return fmt.Errorf("upstream.profile_api_url: %w", err)
	}
	if err := validateHTTPURL(c.Upstream.WebBaseURL); err != nil {
		return fmt.Errorf("upstream.web_base_url: %w", err)
	}
	if strings.TrimSpace(c.Upstream.UserAgent) == "" {
		return fmt.Errorf("upstream.user_agent must be set")
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q must be an absolute http(s) URL", raw)
	}
	return nil
}

// UpstreamTimeout is the per-call budget for outbound requests.
func (c Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RequestTimeout bounds a whole inbound request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// Profile converts the upstream section into the profile service configuration.
func (c Config) Profile() profile.Config {
	return profile.Config{
		ProfileAPIURL: c.Upstream.ProfileAPIURL,
		WebBaseURL:    c.Upstream.WebBaseURL,
		UserAgent:     c.Upstream.UserAgent,
		AppID:         c.Upstream.AppID,
		ASBDID:        c.Upstream.ASBDID,
		WWWClaim:      c.Upstream.WWWClaim,
	}
}
