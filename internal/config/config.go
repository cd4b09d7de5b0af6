package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	FaceServiceURL   string
	FaceServiceSkip  bool
	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryFolder string
	NATSURL          string
	SecuritySubject  string
	RateLimitMax     int
	RateLimitWindow  time.Duration
	DBMaxRetries     int
	SummaryCacheTTL  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Development reports whether the service runs in a development environment.
func (c Config) Development() bool {
	return c.AppEnv == "development"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ROLLCALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Rollcall API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "rollcall/faces")
	v.SetDefault("security.subject", "rollcall.security.events")
	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("db.max_retries", 3)
	v.SetDefault("summary.cache_ttl", "5m")

	window, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("summary.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		FaceServiceURL:   v.GetString("face_service.url"),
		FaceServiceSkip:  v.GetBool("face_service.skip"),
		CloudinaryCloud:  v.GetString("cloudinary.cloud_name"),
		CloudinaryKey:    v.GetString("cloudinary.api_key"),
		CloudinarySecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder: v.GetString("cloudinary.folder"),
		NATSURL:          v.GetString("nats.url"),
		SecuritySubject:  v.GetString("security.subject"),
		RateLimitMax:     v.GetInt("rate_limit.max"),
		RateLimitWindow:  window,
		DBMaxRetries:     v.GetInt("db.max_retries"),
		SummaryCacheTTL:  ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 100
	}

	if cfg.DBMaxRetries < 0 {
		cfg.DBMaxRetries = 3
	}

	return cfg, nil
}
