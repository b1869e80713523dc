// Package config loads runtime settings from the environment (and an
// optional .env file) through viper.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal  = "local"
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// Config holds runtime settings for the CRM server and crmctl.
type Config struct {
	AppPort string

	DBDriver    string
	DatabaseDSN string

	StorageBackend string
	UploadDir      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PathStyle    bool

	RabbitMQURL string

	JWTSecret    string
	TokenTTL     time.Duration
	AuthRequired bool
	BcryptCost   int

	BodyLimitMB int
	LogLevel    string
	LogFormat   string
}

// SetDefaults registers development defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "crm.db")
	v.SetDefault("STORAGE_BACKEND", StorageLocal)
	v.SetDefault("UPLOAD_DIR", "wwwroot/uploads")
	v.SetDefault("S3_BUCKET", "crm-uploads")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_PATH_STYLE", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "change_me_in_production")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("BODY_LIMIT_MB", 32)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		StorageBackend: v.GetString("STORAGE_BACKEND"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		S3Bucket:       v.GetString("S3_BUCKET"),
		S3Region:       v.GetString("S3_REGION"),
		S3Endpoint:     v.GetString("S3_ENDPOINT"),
		S3AccessKey:    v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:    v.GetString("S3_SECRET_KEY"),
		S3PathStyle:    v.GetBool("S3_PATH_STYLE"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		AuthRequired:   v.GetBool("AUTH_REQUIRED"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		BodyLimitMB:    v.GetInt("BODY_LIMIT_MB"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}

	switch c.StorageBackend {
	case StorageLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the local storage backend")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage backend")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.DefaultCost || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between %d and 14", bcrypt.DefaultCost)
	}
	if c.BodyLimitMB <= 0 {
		return fmt.Errorf("BODY_LIMIT_MB must be positive")
	}
	return nil
}
