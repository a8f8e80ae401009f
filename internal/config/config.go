package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"linker/internal/shortener/database"
	"linker/internal/shortener/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process configuration.
type Config struct {
	Mode           domain.Mode
	Port           string
	BaseURL        string
	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string
	RateLimit      int
	AllowedOrigin  string
	GeoIPPath      string
	MaxRetries     int
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
}

var defaults = map[string]any{
	"APP_ENV":             string(domain.ModeDevelopment),
	"PORT":                "8080",
	"BASE_URL":            "",
	"DATABASE_DRIVER":     database.DriverSQLite,
	"DATABASE_URL":        "data/linker.db",
	"REDIS_URL":           "",
	"RATE_LIMIT":          100,
	"CORS_ALLOWED_ORIGIN": "*",
	"GEOIP_DB_PATH":       "",
	"ALIAS_MAX_RETRIES":   10,
	"TRUST_PROXY":         false,
}

// Load reads the optional .env files, then the environment, then defaults.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Mode:           domain.ParseMode(v.GetString("APP_ENV")),
		Port:           strings.TrimSpace(v.GetString("PORT")),
		BaseURL:        strings.TrimRight(strings.TrimSpace(v.GetString("BASE_URL")), "/"),
		DatabaseDriver: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		DatabaseURL:    strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:       strings.TrimSpace(v.GetString("REDIS_URL")),
		RateLimit:      v.GetInt("RATE_LIMIT"),
		AllowedOrigin:  strings.TrimSpace(v.GetString("CORS_ALLOWED_ORIGIN")),
		GeoIPPath:      strings.TrimSpace(v.GetString("GEOIP_DB_PATH")),
		MaxRetries:     v.GetInt("ALIAS_MAX_RETRIES"),
		TrustProxy:     v.GetBool("TRUST_PROXY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER %q: must be %q or %q",
			c.DatabaseDriver, database.DriverSQLite, database.DriverPostgres)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if err := validateBaseURL(c.BaseURL, c.Mode); err != nil {
		return err
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT %d: must be positive", c.RateLimit)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("invalid ALIAS_MAX_RETRIES %d: must be positive", c.MaxRetries)
	}
	if c.AllowedOrigin == "" {
		c.AllowedOrigin = "*"
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// validateBaseURL requires an absolute http(s) origin. Production must set
// one so short URLs never echo the request Host.
func validateBaseURL(baseURL string, mode domain.Mode) error {
	if baseURL == "" {
		if mode.IsProduction() {
			return errors.New("BASE_URL is required in production")
		}
		return nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid BASE_URL %q: must be an absolute http(s) URL", baseURL)
	}
	return nil
}
