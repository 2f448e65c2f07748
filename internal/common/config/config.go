package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"authgate/internal/common/constants"
	commonerrors "authgate/internal/common/errors"
)

type AuthConfig struct {
	HTTPPort       string
	DatabaseURL    string
	Redis          RedisConfig
	RequestTimeout time.Duration
	BcryptCost     int
	SessionTTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func LoadAuthConfig() (AuthConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AuthConfig{}, err
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		HTTPPort:       getEnv("AUTH_HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		Redis:          redisCfg,
		RequestTimeout: getDurationEnv("AUTH_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		BcryptCost:     getIntEnv("AUTH_BCRYPT_COST", bcrypt.DefaultCost),
		SessionTTL:     getDurationEnv("AUTH_SESSION_TTL", 0),
	}, nil
}

// loadRedisConfig accepts either REDIS_ADDR (+ REDIS_PASSWORD, REDIS_DB) or a
// full REDIS_URL, which takes precedence.
func loadRedisConfig() (RedisConfig, error) {
	cfg := RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getIntEnv("REDIS_DB", 0),
	}

	if rawURL := getEnv("REDIS_URL", ""); rawURL != "" {
		parsed, err := parseRedisURL(rawURL)
		if err != nil {
			return RedisConfig{}, fmt.Errorf("REDIS_URL: %w", err)
		}
		cfg = parsed
	}

	if cfg.Addr == "" {
		return RedisConfig{}, fmt.Errorf("%w: REDIS_ADDR or REDIS_URL", commonerrors.ErrMissingRequiredEnv)
	}

	return cfg, nil
}

func parseRedisURL(s string) (RedisConfig, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return RedisConfig{}, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return RedisConfig{}, fmt.Errorf("scheme must be redis or rediss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return RedisConfig{}, fmt.Errorf("missing host")
	}

	cfg := RedisConfig{Addr: u.Host}
	if u.User != nil {
		cfg.Password, _ = u.User.Password()
	}
	if len(u.Path) > 1 {
		cfg.DB, _ = strconv.Atoi(strings.TrimPrefix(u.Path, "/"))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
