package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
}

// MinIOConfig holds object storage settings for uploaded documents.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// DocumentConfig tunes the upload and download endpoints.
type DocumentConfig struct {
	URLExpiry   time.Duration `envconfig:"DOCUMENT_URL_EXPIRY" default:"15m"`
	UploadMaxMB int           `envconfig:"UPLOAD_MAX_MB" default:"50"`
}

// AppConfig is the centralized configuration struct for the application.
// Real environment variables take precedence over a .env file loaded by godotenv/autoload.
type AppConfig struct {
	AppHost  string `envconfig:"APP_HOST" default:"localhost:8080"`
	Port     string `envconfig:"PORT" default:"8080"`
	Timezone string `envconfig:"APP_TIMEZONE" default:"UTC"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Database  DatabaseConfig
	MinIO     MinIOConfig
	Documents DocumentConfig
}

// Load reads configuration from environment variables.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BodyLimit returns the maximum accepted request body in bytes.
func (c *AppConfig) BodyLimit() int {
	if c.Documents.UploadMaxMB <= 0 {
		return 4 * 1024 * 1024
	}
	return c.Documents.UploadMaxMB * 1024 * 1024
}
