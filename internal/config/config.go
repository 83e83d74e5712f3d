package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rs/cors"
)

type R2Config struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	BucketName      string `env:"BUCKET_NAME"`
	Region          string `env:"REGION" envDefault:"auto"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
}

// Enabled reports whether enough is configured to talk to the bucket.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type Config struct {
	DBDriver    string        `env:"DB_DRIVER" envDefault:"postgres"`
	DB_URL      string        `env:"DB_URL"`
	Port        string        `env:"PORT" envDefault:"8080"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`
	Environment string        `env:"ENV" envDefault:"development"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`

	// DisablePasswordHashing turns on the legacy plaintext mode. Never enable outside local debugging.
	DisablePasswordHashing bool `env:"DISABLE_PASSWORD_HASHING" envDefault:"false"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5000,http://127.0.0.1:5500"`
	ClientURL      string   `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	SchedulerEnabled  bool          `env:"SCHEDULER_ENABLED" envDefault:"true"`
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"1m"`

	R2     R2Config     `envPrefix:"R2_"`
	Google GoogleConfig `envPrefix:"GOOGLE_"`
}

// Load reads the optional env file and then the process environment.
// An empty envFile falls back to ENV_FILE, then ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = os.Getenv("ENV_FILE")
	}
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Debug("no env file found", "path", envFile)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return apperr.Configuration("JWT_SECRET is not defined")
	}
	if c.TokenTTL <= 0 {
		return apperr.Configuration("JWT_TTL must be positive")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return apperr.Configuration(fmt.Sprintf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.DB_URL == "" {
		return apperr.Configuration("DB_URL is not defined")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) CorsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Requested-With"},
		AllowCredentials: true,
	}
}
