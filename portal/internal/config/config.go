package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DevMode                bool   `envconfig:"AIU_DEV_MODE"`
	Mode                   string `envconfig:"AIU_MODE" default:"web"`
	Bind                   string `envconfig:"AIU_BIND" default:":8000"`
	ServeStatic            bool   `envconfig:"AIU_SERVE_STATIC"`
	StaticDir              string `envconfig:"AIU_STATIC_DIR" default:"gen"`
	Secret                 string `envconfig:"AIU_SECRET"`
	Origin                 string `envconfig:"AIU_ALLOWED_ORIGIN"`
	PostgresAddress        string `envconfig:"AIU_POSTGRES_ADDRESS" default:"localhost"`
	PostgresPort           int    `envconfig:"AIU_POSTGRES_PORT" default:"5432"`
	PostgresUser           string `envconfig:"AIU_POSTGRES_USER"`
	PostgresPassword       string `envconfig:"AIU_POSTGRES_PASSWORD"`
	PostgresDB             string `envconfig:"AIU_POSTGRES_DB"`
	PostgresSSLMode        string `envconfig:"AIU_POSTGRES_SSL_MODE" default:"disable"`
	PostgresCACertPath     string `envconfig:"AIU_POSTGRES_CA_CERT_PATH"`
	RedisAddress           string `envconfig:"AIU_REDIS_ADDRESS" default:"localhost:6379"`
	RedisUser              string `envconfig:"AIU_REDIS_USER"`
	RedisPassword          string `envconfig:"AIU_REDIS_PASSWORD"`
	S3Bucket               string `envconfig:"AIU_S3_BUCKET"`
	S3ForcePathStyle       bool   `envconfig:"AIU_S3_FORCE_PATH_STYLE"`
	S3PublicBaseURL        string `envconfig:"AIU_S3_PUBLIC_BASE_URL"`
	MCPBind                string `envconfig:"AIU_MCP_BIND" default:":10001"`
	AnalyticsRetentionDays int    `envconfig:"AIU_ANALYTICS_RETENTION_DAYS" default:"90"`
}

func LoadConfig() (*Config, error) {
	var result Config
	if err := envconfig.Process("", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Config) AnalyticsRetention() time.Duration {
	if c.AnalyticsRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.AnalyticsRetentionDays) * 24 * time.Hour
}
