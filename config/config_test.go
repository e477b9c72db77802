package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "My Simple Grocery", cfg.Server.StoreName)
	assert.Equal(t, "Asia/Colombo", cfg.Server.Timezone)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.Equal(t, 5*time.Second, cfg.Store.LockTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("LOCK_TIMEOUT", "250ms")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOGGER_FILE", "/var/log/pos.log")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("APP_ENV", "production")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.LockTimeout)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "/var/log/pos.log", cfg.Logger.File)
	assert.Equal(t, "postgres://pos:pos@db:5432/kdj_pos?sslmode=disable", cfg.Postgres.DSN())
	assert.False(t, cfg.IsDevelopment())
}

func TestParseRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	_, err := Parse()
	assert.ErrorContains(t, err, "STORE_BACKEND")
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT", "soon")
	_, err := Parse()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	t.Setenv("TIMEZONE", "Asia/Colombo")
	cfg, err := Parse()
	require.NoError(t, err)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Colombo", loc.String())

	cfg.Server.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
