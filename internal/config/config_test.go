package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.StorageDrv)
	assert.Equal(t, 10, cfg.FreightRateLimit)
	assert.Equal(t, time.Minute, cfg.FreightWindow)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("FREIGHT_RATE_WINDOW", "30s")
	t.Setenv("FREIGHT_RATE_LIMIT", "3")

	cfg := Load()
	assert.Equal(t, "memory", cfg.StorageDrv)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.FreightWindow)
	assert.Equal(t, 3, cfg.FreightRateLimit)
}

func TestValidate(t *testing.T) {
	base := Config{
		Env: "development", StorageDrv: "memory", RateLimitBackend: "memory",
		JWTSecret: "dev-secret-change-me", FreightRateLimit: 10, FreightWindow: time.Minute,
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.StorageDrv = "mysql"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Env = "production"
	assert.Error(t, bad.Validate())

	bad = base
	bad.RateLimitBackend = "memcached"
	assert.Error(t, bad.Validate())
}
