package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "health-wallet-dev-secret"

// Config holds every setting the server and worker read at startup.
type Config struct {
	Env    string
	Port   string
	AppURL string

	DBDriver    string
	DatabaseDSN string

	JWTSecret string
	JWTTTL    time.Duration

	StorageDriver string
	UploadDir     string
	MaxFileSize   int64

	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	RabbitMQURL      string
	ShareEventsQueue string

	ResendAPIKey string
	EmailFrom    string

	CORSOrigins   string
	AuthRateLimit int
	StaticDir     string
}

// Load reads configuration from the environment, after applying a .env file
// when one exists in the working directory.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Env:    strings.ToLower(v.GetString("APP_ENV")),
		Port:   v.GetString("APP_PORT"),
		AppURL: strings.TrimSuffix(v.GetString("APP_URL"), "/"),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN: v.GetString("DATABASE_DSN"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:     v.GetString("UPLOAD_DIR"),
		MaxFileSize:   v.GetInt64("MAX_FILE_SIZE"),

		S3Region:    v.GetString("S3_REGION"),
		S3Bucket:    v.GetString("S3_BUCKET"),
		S3AccessKey: v.GetString("S3_ACCESS_KEY"),
		S3SecretKey: v.GetString("S3_SECRET_KEY"),
		S3Endpoint:  v.GetString("S3_ENDPOINT"),

		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		ShareEventsQueue: v.GetString("SHARE_EVENTS_QUEUE"),

		ResendAPIKey: v.GetString("RESEND_API_KEY"),
		EmailFrom:    v.GetString("EMAIL_FROM"),

		CORSOrigins:   v.GetString("CORS_ORIGINS"),
		AuthRateLimit: v.GetInt("AUTH_RATE_LIMIT"),
		StaticDir:     v.GetString("STATIC_DIR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("APP_URL", "http://localhost:5173")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "health_wallet.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_FILE_SIZE", 10<<20)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SHARE_EVENTS_QUEUE", "share_events")
	v.SetDefault("EMAIL_FROM", "Health Wallet <no-reply@healthwallet.local>")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
}

// Validate checks the combinations Load cannot express as defaults.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	switch c.StorageDriver {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q (want local or s3)", c.StorageDriver)
	}
	if c.StorageDriver == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.JWTSecret == "" || (!c.IsDevelopment() && c.JWTSecret == defaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set outside development")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AllowedOrigins splits CORS_ORIGINS into trimmed entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
