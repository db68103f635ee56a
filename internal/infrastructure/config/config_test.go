package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, "project_tracker", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 20, cfg.RateLimit.Limit)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"JWT_EXPIRY":      "1h",
		"STORE":           "memory",
		"ENV":             "production",
		"AUTH_RATE_LIMIT": "5",
		"REDIS_ADDR":      "cache:6379",
		"REDIS_PASSWORD":  "pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err, "JWT_SECRET is required")

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"STORE":      "postgres",
	}))
	assert.Error(t, err)
}
