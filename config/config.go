package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port          int    `toml:"port"`
	SessionExpiry string `toml:"session_expiry"` // Go duration, e.g. "24h"
	SecureCookies bool   `toml:"secure_cookies"`
	TemplatesDir  string `toml:"templates_dir"` // Empty serves the embedded templates
}

type JWTConfig struct {
	Secret      string `toml:"secret"` // For JWT signing
	ExpiryHours int    `toml:"expiry_hours"`
}

type StorageConfig struct {
	DataDir string `toml:"data_dir"` // Holds the bbolt user database
}

type TransportConfig struct {
	DelayMS     int     `toml:"delay_ms"`
	FailureRate float64 `toml:"failure_rate"` // 0 never fails, 1 always fails
	TimeoutMS   int     `toml:"timeout_ms"`
}

type ClassifierConfig struct {
	CISenders    []string `toml:"ci_senders"`
	AlertSenders []string `toml:"alert_senders"`
}

type UIConfig struct {
	DefaultTheme  string            `toml:"default_theme"`
	DefaultFolder string            `toml:"default_folder"`
	ThemesFile    string            `toml:"themes_file"` // Optional YAML replacing the bundled themes
	Keys          map[string]string `toml:"keys"`        // key = action overrides
}

type RateLimitConfig struct {
	Requests int    `toml:"requests"`
	Window   string `toml:"window"` // Go duration
}

type LogConfig struct {
	Level string `toml:"level"`
}

type SSLConfig struct {
	Enabled    bool   `toml:"enabled"`
	CertFile   string `toml:"cert_file"` // Path to fullchain.pem
	KeyFile    string `toml:"key_file"`  // Path to privkey.pem
	Domain     string `toml:"domain"`    // Domain name for HSTS
	HSTSMaxAge int    `toml:"hsts_max_age"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	JWT        JWTConfig        `toml:"jwt"`
	Storage    StorageConfig    `toml:"storage"`
	Transport  TransportConfig  `toml:"transport"`
	Classifier ClassifierConfig `toml:"classifier"`
	UI         UIConfig         `toml:"ui"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	Log        LogConfig        `toml:"log"`
	SSL        SSLConfig        `toml:"ssl"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          3000,
			SessionExpiry: "24h",
		},
		JWT: JWTConfig{
			Secret:      "xmail-dev-secret",
			ExpiryHours: 24,
		},
		Storage:   StorageConfig{DataDir: "./data"},
		Transport: TransportConfig{DelayMS: 1000, TimeoutMS: 10000},
		Classifier: ClassifierConfig{
			CISenders:    []string{"circleci", "vercel"},
			AlertSenders: []string{"sentry", "error"},
		},
		UI: UIConfig{
			DefaultTheme:  "techy",
			DefaultFolder: "inbox",
		},
		RateLimit: RateLimitConfig{Requests: 100, Window: "1m"},
		Log:       LogConfig{Level: "info"},
		SSL:       SSLConfig{HSTSMaxAge: 31536000},
	}
}

// LoadConfig reads defaults, then the TOML file at path when it exists, then
// .env and process environment overrides.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if _, err := toml.DecodeFile(path, config); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		c.JWT.Secret = v
	}
	if v, ok := lookup("XMAIL_DATA_DIR"); ok && v != "" {
		c.Storage.DataDir = v
	}
	if v, ok := lookup("XMAIL_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.Transport.FailureRate < 0 || c.Transport.FailureRate > 1 {
		return fmt.Errorf("transport failure_rate must be between 0 and 1")
	}
	if _, err := time.ParseDuration(c.Server.SessionExpiry); err != nil {
		return fmt.Errorf("invalid server session_expiry: %w", err)
	}
	if _, err := time.ParseDuration(c.RateLimit.Window); err != nil {
		return fmt.Errorf("invalid rate_limit window: %w", err)
	}
	return c.ValidateSSL()
}

// SessionExpiry returns the parsed session lifetime
func (c *Config) SessionExpiry() time.Duration {
	d, _ := time.ParseDuration(c.Server.SessionExpiry)
	return d
}

// RateWindow returns the parsed rate limit window
func (c *Config) RateWindow() time.Duration {
	d, _ := time.ParseDuration(c.RateLimit.Window)
	return d
}

// TokenTTL returns how long issued JWTs stay valid
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}

// SendDelay returns the simulated transport delay
func (c *Config) SendDelay() time.Duration {
	return time.Duration(c.Transport.DelayMS) * time.Millisecond
}

// SendTimeout bounds one background send
func (c *Config) SendTimeout() time.Duration {
	return time.Duration(c.Transport.TimeoutMS) * time.Millisecond
}

// ValidateSSL checks if the SSL configuration is valid
func (c *Config) ValidateSSL() error {
	if !c.SSL.Enabled {
		return nil
	}

	if c.SSL.CertFile == "" {
		return fmt.Errorf("SSL certificate file path is required")
	}

	if c.SSL.KeyFile == "" {
		return fmt.Errorf("SSL key file path is required")
	}

	// Try loading the certificates to verify they're valid
	if _, err := tls.LoadX509KeyPair(c.SSL.CertFile, c.SSL.KeyFile); err != nil {
		return fmt.Errorf("failed to load SSL certificates: %w", err)
	}

	return nil
}

// GetSecurityHeaders returns the extra headers implied by the SSL settings
func (c *Config) GetSecurityHeaders() map[string]string {
	headers := make(map[string]string)

	if c.SSL.Enabled && c.SSL.Domain != "" {
		headers["Strict-Transport-Security"] = fmt.Sprintf("max-age=%d; includeSubDomains", c.SSL.HSTSMaxAge)
	}

	return headers
}
