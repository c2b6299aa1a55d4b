package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting. Values come from the environment
// (a .env file is loaded in main before processing).
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"production"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:""`
	DBName      string `envconfig:"DB_NAME" default:"ecommerce"`

	JWTAccessSecret  string `envconfig:"JWT_ACCESS_SECRET" required:"true"`
	JWTRefreshSecret string `envconfig:"JWT_REFRESH_SECRET" required:"true"`
	CookieSecure     bool   `envconfig:"COOKIE_SECURE" default:"false"`

	RazorpayKeyID     string `envconfig:"RZP_KEY_ID" default:""`
	RazorpayKeySecret string `envconfig:"RZP_KEY_SECRET" default:""`

	SendgridAPIKey string `envconfig:"SENDGRID_API_KEY" default:""`
	MailFrom       string `envconfig:"MAIL_FROM" default:"no-reply@kartlane.dev"`

	// When empty the rate limiter falls back to an in-process counter map,
	// which is only correct for a single-instance deployment.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	RateLimitWindowSeconds int `envconfig:"RATE_LIMIT_WINDOW" default:"60"`
	RateLimitMax           int `envconfig:"RATE_LIMIT_MAX" default:"100"`

	FrontendOrigin string `envconfig:"FRONTEND_ORIGIN" default:"http://localhost:3000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN builds the Postgres connection string from either DATABASE_URL or
// the individual DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
