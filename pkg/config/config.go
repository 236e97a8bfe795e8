package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/user/apartment-scraper/pkg/utils"
)

const (
	FetchModeBrowser = "browser"
	FetchModeStatic  = "static"
)

// Config holds the application configuration.
type Config struct {
	URLs       string `mapstructure:"URLS"`
	OutputPath string `mapstructure:"OUTPUT_PATH"`

	FetchMode       string        `mapstructure:"FETCH_MODE"`
	Headless        bool          `mapstructure:"HEADLESS"`
	UserAgent       string        `mapstructure:"USER_AGENT"`
	ViewportWidth   int           `mapstructure:"VIEWPORT_WIDTH"`
	ViewportHeight  int           `mapstructure:"VIEWPORT_HEIGHT"`
	PageLoadTimeout time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
	SettleDelay     time.Duration `mapstructure:"SETTLE_DELAY"`
	MinDelay        time.Duration `mapstructure:"MIN_DELAY"`
	MaxDelay        time.Duration `mapstructure:"MAX_DELAY"`
	MaxRetries      int           `mapstructure:"MAX_RETRIES"`

	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`
	MetricsAddr string `mapstructure:"METRICS_ADDR"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`
}

var defaults = map[string]any{
	"URLS":              "",
	"OUTPUT_PATH":       "results.json",
	"FETCH_MODE":        FetchModeBrowser,
	"HEADLESS":          true,
	"USER_AGENT":        "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"VIEWPORT_WIDTH":    1366,
	"VIEWPORT_HEIGHT":   768,
	"PAGE_LOAD_TIMEOUT": "60s",
	"SETTLE_DELAY":      "5s",
	"MIN_DELAY":         "2s",
	"MAX_DELAY":         "5s",
	"MAX_RETRIES":       1,
	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "json",
	"SERVER_PORT":       "8080",
	"METRICS_ADDR":      "",
	"POSTGRES_URL":      "",
	"REDIS_ADDR":        "",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"CACHE_TTL":         "24h",
	"AMQP_URL":          "",
	"AMQP_EXCHANGE":     "apartments",
}

// Load reads configuration from a .env file (if present) and environment variables.
// Every key has a default so that environment overrides reach Unmarshal.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is normal; production is configured through the environment.
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the scraper cannot run with.
func (c *Config) Validate() error {
	switch c.FetchMode {
	case FetchModeBrowser, FetchModeStatic:
	default:
		return fmt.Errorf("unknown FETCH_MODE %q (want %q or %q)", c.FetchMode, FetchModeBrowser, FetchModeStatic)
	}
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("invalid delay range %v-%v", c.MinDelay, c.MaxDelay)
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.PageLoadTimeout <= 0 {
		return fmt.Errorf("PAGE_LOAD_TIMEOUT must be positive, got %v", c.PageLoadTimeout)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH must not be empty")
	}
	return nil
}

// URLList returns the trimmed, non-empty entries of URLS.
func (c *Config) URLList() []string {
	return utils.ParseURLList(c.URLs)
}

// RequestHeaders are sent with every page request.
func (c *Config) RequestHeaders() map[string]string {
	return map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
		"Accept-Encoding": "gzip, deflate, br",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Connection":      "keep-alive",
		"DNT":             "1",
	}
}
