package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	Env  string
	Port string

	MongoURI     string
	DBName       string
	StoreDriver  string
	StoreTimeout time.Duration

	// Per-entry budget for background activity writes
	ActivityLogTimeout time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	// Initial admin created by the bootstrap seed
	AdminEmail    string
	AdminPassword string

	// Cloudinary Configuration
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// LoadConfig loads configuration from .env file or environment variables.
// log may be nil.
func LoadConfig(path string, log *zap.Logger) (*Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := godotenv.Load(path); err != nil {
		log.Info("no .env file found, reading from environment", zap.String("path", path), zap.Error(err))
	}

	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "hr_edecs"),
		StoreDriver:  getEnv("STORE_DRIVER", DriverMongo),
		StoreTimeout: getDuration(log, "STORE_TIMEOUT", 5*time.Second),

		ActivityLogTimeout: getDuration(log, "ACTIVITY_LOG_TIMEOUT", 5*time.Second),

		JWTSecret: getEnv("JWT_SECRET", "change_this_secret_in_production"),
		TokenTTL:  getDuration(log, "TOKEN_TTL", 24*time.Hour),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@hr-edecs.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "ChangeMe123!"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}, nil
}

// CloudinaryEnabled is true when all Cloudinary credentials are present.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration parses a duration such as "5s"; malformed values fall back to the default.
func getDuration(log *zap.Logger, key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn("invalid duration, using default",
			zap.String("key", key),
			zap.String("value", raw),
			zap.Duration("default", defaultValue),
		)
		return defaultValue
	}
	return d
}
