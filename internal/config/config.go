// Package config holds runtime settings for the API server, loaded from
// environment variables. Required settings cause a startup error when absent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// PublicBaseURL is the externally reachable URL of the site, used to
	// build password-reset links and public upload URLs.
	PublicBaseURL string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPSender string

	// UploadDir is the local directory uploads are written to when no S3
	// bucket is configured.
	UploadDir string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// Load reads the configuration from the environment. DATABASE_URL,
// ACCESS_SECRET, REFRESH_SECRET and PUBLIC_BASE_URL are required.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "4000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AccessSecret:  os.Getenv("ACCESS_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_SECRET"),
		AccessTTL:     getduration("ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    getduration("REFRESH_TTL", 30*24*time.Hour),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getint("SMTP_PORT", 465),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		SMTPSender: os.Getenv("SMTP_SENDER"),

		UploadDir: getenv("UPLOAD_DIR", "public/uploads"),

		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getenv("S3_REGION", "us-east-1"),
		S3BaseEndpoint: os.Getenv("S3_BASE_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),

		RateLimitRequests: getint("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getduration("RATE_LIMIT_WINDOW", time.Minute),
	}

	for name, v := range map[string]string{
		"DATABASE_URL":    cfg.DatabaseURL,
		"ACCESS_SECRET":   cfg.AccessSecret,
		"REFRESH_SECRET":  cfg.RefreshSecret,
		"PUBLIC_BASE_URL": cfg.PublicBaseURL,
		"SMTP_HOST":       cfg.SMTPHost,
		"SMTP_SENDER":     cfg.SMTPSender,
	} {
		if v == "" {
			return nil, fmt.Errorf("config: %s is required", name)
		}
	}

	return cfg, nil
}

// S3Configured reports whether uploads should go to object storage instead of
// the local upload directory.
func (c *Config) S3Configured() bool {
	return c.S3Bucket != ""
}
