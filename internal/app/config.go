package app

import (
	"errors"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"45s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"40s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	ContactsConfig

	DirectoryIdleTTL       time.Duration `envconfig:"DIRECTORY_IDLE_TTL" default:"30m"`
	DirectorySweepInterval time.Duration `envconfig:"DIRECTORY_SWEEP_INTERVAL" default:"1m"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

// ContactsConfig locates the remote contacts resource.
type ContactsConfig struct {
	ContactsBaseURL string        `envconfig:"CONTACTS_BASE_URL" default:"https://employee-server-wbrf.onrender.com"`
	ContactsTimeout time.Duration `envconfig:"CONTACTS_TIMEOUT" default:"30s"`
}

// LoadContactsConfig reads only the contacts settings, for tools that do not
// serve HTTP.
func LoadContactsConfig() (*ContactsConfig, error) {
	var cfg ContactsConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c ContactsConfig) validate() error {
	u, err := url.Parse(c.ContactsBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("contacts base url must be an absolute url")
	}
	return nil
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if err := cfg.ContactsConfig.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
