package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "happiety-dev-secret-change-me"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set in release mode")

type Config struct {
	Port    string
	GinMode string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBDSN          string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	AccessCodeMaxAttempts  int
	RateLimitAuthPerMinute int

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PresignExpiry time.Duration

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:       getEnv("DB_DRIVER", "mysql"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "happiety"),
		DBPassword:     getEnv("DB_PASSWORD", "happiety"),
		DBName:         getEnv("DB_NAME", "happiety"),
		DBDSN:          getEnv("DB_DSN", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:  getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:  getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", 12),

		AccessCodeMaxAttempts:  getEnvInt("ACCESS_CODE_MAX_ATTEMPTS", 10),
		RateLimitAuthPerMinute: getEnvInt("RATE_LIMIT_AUTH_PER_MINUTE", 20),

		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3PresignExpiry: getEnvDuration("S3_PRESIGN_EXPIRY", 15*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.GinMode == "release" && c.JWTSecret == defaultJWTSecret {
		return ErrInsecureJWTSecret
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AccessCodeMaxAttempts < 1 {
		return fmt.Errorf("ACCESS_CODE_MAX_ATTEMPTS must be positive, got %d", c.AccessCodeMaxAttempts)
	}
	return nil
}

// DSN returns DB_DSN when set, otherwise a DSN assembled for the configured driver.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}

	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	case "sqlite":
		return c.DBName + ".db"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
}

// MediaStorageEnabled reports whether object storage is configured.
func (c *Config) MediaStorageEnabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
