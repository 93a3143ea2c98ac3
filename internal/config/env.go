package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Env struct {
	AppPort                string        `validate:"required,numeric"`
	AppEnv                 string        `validate:"required,oneof=development production test"`
	DetectionAPIURL        string        `validate:"required,url"`
	DetectionUploadTimeout time.Duration `validate:"gt=0"`
	DetectionHealthTimeout time.Duration `validate:"gt=0"`
	HealthPollInterval     time.Duration `validate:"gt=0"`
	MaxUploadSizeMB        int           `validate:"gte=1,lte=100"`
	UploadMaxDimension     int           `validate:"gte=0"`
	UploadJPEGQuality      int           `validate:"gte=1,lte=100"`
	ResultTTL              time.Duration `validate:"gt=0"`
	RateLimit              float64       `validate:"gt=0"`
	RateBurst              int           `validate:"gte=1"`
	AllowedOrigins         string        `validate:"required"`
	RedisAddress           string        `validate:"required,hostname_port"`
	RedisPassword          string
	RedisDB                int `validate:"gte=0"`
}

// LoadEnv reads the process environment, filling unset keys with defaults.
func LoadEnv() (*Env, error) {
	env := &Env{
		AppPort:         getEnv("APP_PORT", "3000"),
		AppEnv:          getEnv("APP_ENV", "development"),
		DetectionAPIURL: strings.TrimRight(getEnv("DETECTION_API_URL", "http://localhost:8000"), "/"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddress:    getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
	}

	var err error
	if env.DetectionUploadTimeout, err = getEnvAsDuration("DETECTION_UPLOAD_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if env.DetectionHealthTimeout, err = getEnvAsDuration("DETECTION_HEALTH_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if env.HealthPollInterval, err = getEnvAsDuration("HEALTH_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if env.ResultTTL, err = getEnvAsDuration("RESULT_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if env.MaxUploadSizeMB, err = getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10); err != nil {
		return nil, err
	}
	if env.UploadMaxDimension, err = getEnvAsInt("UPLOAD_MAX_DIMENSION", 0); err != nil {
		return nil, err
	}
	if env.UploadJPEGQuality, err = getEnvAsInt("UPLOAD_JPEG_QUALITY", 85); err != nil {
		return nil, err
	}
	if env.RateBurst, err = getEnvAsInt("RATE_BURST", 100); err != nil {
		return nil, err
	}
	if env.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if env.RateLimit, err = getEnvAsFloat("RATE_LIMIT", 50); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(env); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	return env, nil
}

func (e *Env) MaxUploadSize() int64 {
	return int64(e.MaxUploadSizeMB) * 1024 * 1024
}

func (e *Env) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(e.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	return d, nil
}
