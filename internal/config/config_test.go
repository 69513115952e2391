package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/theater-billing/internal/billing"
	"github.com/noah-isme/theater-billing/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":      "",
		"REDIS_URL": "",
		"APP_ENV":   "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Empty(t, cfg.RedisURL)
	require.Equal(t, billing.DefaultTariff(), cfg.Tariff)
	require.Equal(t, 10*time.Minute, cfg.StatementCacheTTL)
	require.Equal(t, 120, cfg.RateLimitMax)
}

func TestLoadTariffOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PRICING_TRAGEDY_BASE":          "50000",
		"PRICING_COMEDY_THRESHOLD":      "25",
		"PRICING_COMEDY_CREDIT_DIVISOR": "5",
	})
	require.NoError(t, err)
	require.Equal(t, billing.Money(50000), cfg.Tariff.TragedyBase)
	require.Equal(t, 25, cfg.Tariff.ComedyThreshold)
	require.Equal(t, 5, cfg.Tariff.ComedyCreditDivisor)

	// untouched values keep their defaults
	require.Equal(t, billing.DefaultTariff().ComedyBase, cfg.Tariff.ComedyBase)
}

func TestLoadRejectsBadTariff(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"PRICING_COMEDY_CREDIT_DIVISOR": "0",
	})
	require.Error(t, err)

	_, err = config.LoadForTests(map[string]string{
		"PRICING_TRAGEDY_BASE": "-100",
	})
	require.Error(t, err)
}

func TestHTTPAddr(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{"PORT": ":9090"})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())

	cfg, err = config.LoadForTests(map[string]string{"PORT": "7070"})
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTPAddr())
}
