// SPDX-License-Identifier: AGPL-3.0-or-later
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the process-wide configuration loaded from the environment
// at startup.
type Config struct {
	Database DatabaseConfig
	SMTP     SMTPConfig
	S3       S3Config
	Logger   LoggerConfig
	Status   StatusConfig
	Campaigns CampaignsConfig
}

// DatabaseConfig holds the catalog/audit database DSN.
type DatabaseConfig struct {
	DSN string
}

// SMTPConfig holds the SMTP relay connection details: credentials and a
// configurable relay host/port.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	StartTLS bool
}

// S3Config holds the template source store connection details. Leaving
// Bucket empty disables the store entirely: existence checks are then
// skipped, not faked.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// LoggerConfig holds the slog level.
type LoggerConfig struct {
	Level string
}

// StatusConfig holds the optional read-only status HTTP server's bind
// address. An empty Addr disables the server.
type StatusConfig struct {
	Addr string
}

// CampaignsConfig points at the declarative trigger manifest read once
// at startup.
type CampaignsConfig struct {
	File string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.DSN = firstNonEmpty(os.Getenv("CAMPAIGND_DB_DSN"), os.Getenv("DB_PATH"))
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("missing required environment variable: CAMPAIGND_DB_DSN (or DB_PATH)")
	}

	cfg.SMTP.Host = getEnv("CAMPAIGND_SMTP_HOST", "smtp.gmail.com")
	port, err := strconv.Atoi(getEnv("CAMPAIGND_SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAMPAIGND_SMTP_PORT: %w", err)
	}
	cfg.SMTP.Port = port
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = os.Getenv("CAMPAIGND_SMTP_FROM")
	cfg.SMTP.StartTLS = getBool("CAMPAIGND_SMTP_STARTTLS", true)

	cfg.S3.Endpoint = os.Getenv("CAMPAIGND_S3_ENDPOINT")
	cfg.S3.Bucket = os.Getenv("CAMPAIGND_S3_BUCKET")
	cfg.S3.Region = getEnv("CAMPAIGND_S3_REGION", "us-east-1")
	cfg.S3.AccessKey = os.Getenv("CAMPAIGND_S3_ACCESS_KEY")
	cfg.S3.SecretKey = os.Getenv("CAMPAIGND_S3_SECRET_KEY")

	cfg.Logger.Level = getEnv("CAMPAIGND_LOG_LEVEL", "info")

	cfg.Status.Addr = os.Getenv("CAMPAIGND_STATUS_LISTEN_ADDR")

	cfg.Campaigns.File = getEnv("CAMPAIGND_CAMPAIGNS_FILE", "campaigns.yaml")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
