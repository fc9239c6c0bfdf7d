package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL        string
	ProxySecret        string
	ServerPort         int
	RateLimit          int
	AllowedOrigins     []string
	ExposeErrorDetails bool

	LiveTokenSecret string
	LiveTokenTTL    time.Duration

	NatsURL           string
	NatsToken         string
	NatsSubjectPrefix string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// LiveUpdatesEnabled reports whether the websocket feed should be served.
func (c *Config) LiveUpdatesEnabled() bool {
	return c.LiveTokenSecret != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load() // Отсутствие .env не ошибка

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	secret := os.Getenv("APP_PROXY_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("APP_PROXY_SECRET environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rateLimit, err := intEnv("RATE_LIMIT", 120)
	if err != nil {
		return nil, err
	}
	if rateLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT must not be negative, got %d", rateLimit)
	}

	exposeErrors, err := boolEnv("EXPOSE_ERROR_DETAILS", false)
	if err != nil {
		return nil, err
	}

	liveTTL := 15 * time.Minute
	if v := os.Getenv("LIVE_TOKEN_TTL"); v != "" {
		liveTTL, err = time.ParseDuration(v)
		if err != nil || liveTTL <= 0 {
			return nil, fmt.Errorf("invalid LIVE_TOKEN_TTL environment variable: %q", v)
		}
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ProxySecret:        secret,
		ServerPort:         port,
		RateLimit:          rateLimit,
		AllowedOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ExposeErrorDetails: exposeErrors,

		LiveTokenSecret: os.Getenv("LIVE_TOKEN_SECRET"),
		LiveTokenTTL:    liveTTL,

		NatsURL:           os.Getenv("NATS_URL"),
		NatsToken:         os.Getenv("NATS_TOKEN"),
		NatsSubjectPrefix: os.Getenv("NATS_SUBJECT_PREFIX"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
