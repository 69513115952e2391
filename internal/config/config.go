package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/theater-billing/internal/billing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	LogFormat          string
	LogLevel           string
	PlaysPath          string
	RedisURL           string
	CORSAllowedOrigins []string

	StatementCacheTTL time.Duration
	IdempotencyTTL    time.Duration
	RateLimitWindow   time.Duration
	RateLimitMax      int

	TracingEnabled bool
	TracingOTLP    string
	TracingRatio   float64

	Tariff billing.Tariff
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		PlaysPath:          valueOrDefault(k.String("PLAYS_PATH"), "plays.json"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		StatementCacheTTL:  parseDuration(k.String("STATEMENT_CACHE_TTL"), "10m"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		RateLimitWindow:    parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:       parseInt(k.String("RATE_LIMIT_MAX"), 120),
		TracingEnabled:     parseBool(k.String("TRACING_ENABLED")),
		TracingOTLP:        strings.TrimSpace(k.String("TRACING_OTLP_ENDPOINT")),
		TracingRatio:       parseFloat(k.String("TRACING_SAMPLING_RATIO"), 1.0),
		Tariff:             loadTariff(k),
	}

	if cfg.RateLimitMax < 0 {
		return nil, errors.New("RATE_LIMIT_MAX cannot be negative")
	}
	if err := validateTariff(cfg.Tariff); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTariff overlays PRICING_* environment values onto the default rate
// card. Only the numbers are configurable; the formula shape is fixed in the
// billing package.
func loadTariff(k *koanf.Koanf) billing.Tariff {
	t := billing.DefaultTariff()
	t.TragedyBase = parseMoney(k.String("PRICING_TRAGEDY_BASE"), t.TragedyBase)
	t.TragedyThreshold = parseInt(k.String("PRICING_TRAGEDY_THRESHOLD"), t.TragedyThreshold)
	t.TragedyPerSeatOver = parseMoney(k.String("PRICING_TRAGEDY_PER_SEAT_OVER"), t.TragedyPerSeatOver)
	t.ComedyBase = parseMoney(k.String("PRICING_COMEDY_BASE"), t.ComedyBase)
	t.ComedyThreshold = parseInt(k.String("PRICING_COMEDY_THRESHOLD"), t.ComedyThreshold)
	t.ComedyOverCapacity = parseMoney(k.String("PRICING_COMEDY_OVER_CAPACITY"), t.ComedyOverCapacity)
	t.ComedyPerSeatOver = parseMoney(k.String("PRICING_COMEDY_PER_SEAT_OVER"), t.ComedyPerSeatOver)
	t.ComedyPerSeat = parseMoney(k.String("PRICING_COMEDY_PER_SEAT"), t.ComedyPerSeat)
	t.CreditThreshold = parseInt(k.String("PRICING_CREDIT_THRESHOLD"), t.CreditThreshold)
	t.ComedyCreditDivisor = parseInt(k.String("PRICING_COMEDY_CREDIT_DIVISOR"), t.ComedyCreditDivisor)
	return t
}

func validateTariff(t billing.Tariff) error {
	if t.TragedyBase < 0 || t.ComedyBase < 0 || t.TragedyPerSeatOver < 0 ||
		t.ComedyOverCapacity < 0 || t.ComedyPerSeatOver < 0 || t.ComedyPerSeat < 0 {
		return errors.New("pricing rates cannot be negative")
	}
	if t.TragedyThreshold < 0 || t.ComedyThreshold < 0 || t.CreditThreshold < 0 {
		return errors.New("pricing thresholds cannot be negative")
	}
	if t.ComedyCreditDivisor <= 0 {
		return errors.New("PRICING_COMEDY_CREDIT_DIVISOR must be positive")
	}
	return nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseMoney(value string, fallback billing.Money) billing.Money {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and
// command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without
// touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
