package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/edvin/subnets/internal/subnet"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	ServiceName       string
	HTTPListenAddr    string
	MetricsListenAddr string
	LogLevel          string
	CORSOrigins       []string

	// RateLimitRequests caps requests per client IP within RateLimitWindow.
	// Zero disables the limiter.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	StoreBackend string
	DataFile     string
	DatabaseURL  string

	SubnetBase  string
	CatalogFile string

	BackupS3Endpoint  string
	BackupS3Region    string
	BackupS3Bucket    string
	BackupS3Key       string
	BackupS3AccessKey string
	BackupS3SecretKey string
}

// Load reads the configuration from the environment. Variables from the file
// named by ENV_FILE (default ".env") are applied first without overriding
// anything already set; a missing file is not an error.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := &Config{
		ServiceName:       getEnv("SERVICE_NAME", "subnets-api"),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":3001"),
		MetricsListenAddr: getEnv("METRICS_LISTEN_ADDR", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DataFile:          getEnv("DATA_FILE", "data.json"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SubnetBase:        getEnv("SUBNET_BASE", subnet.DefaultBase),
		CatalogFile:       getEnv("CATALOG_FILE", ""),
		BackupS3Endpoint:  getEnv("BACKUP_S3_ENDPOINT", ""),
		BackupS3Region:    getEnv("BACKUP_S3_REGION", "us-east-1"),
		BackupS3Bucket:    getEnv("BACKUP_S3_BUCKET", ""),
		BackupS3Key:       getEnv("BACKUP_S3_KEY", "projects.json"),
		BackupS3AccessKey: getEnv("BACKUP_S3_ACCESS_KEY", ""),
		BackupS3SecretKey: getEnv("BACKUP_S3_SECRET_KEY", ""),
	}

	var err error
	if cfg.RateLimitRequests, err = strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "0")); err != nil {
		return nil, fmt.Errorf("parse RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "15m")); err != nil {
		return nil, fmt.Errorf("parse RATE_LIMIT_WINDOW: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string

	switch c.StoreBackend {
	case BackendFile:
		if c.DataFile == "" {
			missing = append(missing, "DATA_FILE")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendPostgres, c.StoreBackend)
	}

	if c.BackupEnabled() {
		if c.BackupS3AccessKey == "" {
			missing = append(missing, "BACKUP_S3_ACCESS_KEY")
		}
		if c.BackupS3SecretKey == "" {
			missing = append(missing, "BACKUP_S3_SECRET_KEY")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if c.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative, got %d", c.RateLimitRequests)
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}

	if _, err := subnet.NewAllocator(c.SubnetBase); err != nil {
		return fmt.Errorf("SUBNET_BASE: %w", err)
	}
	return nil
}

// RateLimitEnabled reports whether per-IP rate limiting is on.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitRequests > 0
}

// BackupEnabled reports whether snapshots should be copied to object storage.
func (c *Config) BackupEnabled() bool {
	return c.BackupS3Bucket != ""
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
