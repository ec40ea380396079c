package config

import (
	"os"
	"time"

	"plume/internal/utils"
)

// Config collects every environment setting in one place. main calls
// godotenv.Load before Load so a local .env works the same as real env vars.
type Config struct {
	Port        string
	DatabaseURL string

	// SecretKey signs confirmation and API tokens. SessionSecret keys the
	// session cookie store; the two rotate independently.
	SecretKey     string
	SessionSecret string

	// AdminEmail: a user registering with this address gets the
	// Administrator role.
	AdminEmail string

	TokenTTL     time.Duration
	PostsPerPage int

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() *Config {
	ttlSeconds := utils.StringToInt(os.Getenv("TOKEN_TTL_SECONDS"))
	if ttlSeconds <= 0 {
		ttlSeconds = 3600
	}
	perPage := utils.StringToInt(os.Getenv("POSTS_PER_PAGE"))
	if perPage <= 0 {
		perPage = 10
	}

	return &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=plume port=5432 sslmode=disable"),
		SecretKey:     getenv("SECRET_KEY", "hard to guess string"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		TokenTTL:      time.Duration(ttlSeconds) * time.Second,
		PostsPerPage:  perPage,
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
	}
}
