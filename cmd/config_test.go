package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/jobs"
)

func validConfig() Config {
	return Config{
		HTTPPort:        "8080",
		DBHost:          "localhost",
		DBName:          "dispatch",
		StorageDriver:   StorageDriverPostgres,
		APIKey:          "secret",
		DistanceTimeout: 5 * time.Second,
	}
}

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	t.Setenv("APIKEY", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.DistanceTimeout)
	assert.Equal(t, 24*time.Hour, cfg.DistanceCacheTTL)
	assert.Equal(t, jobs.DefaultBacklogSchedule, cfg.BacklogJobSchedule)
	assert.False(t, cfg.TracingEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", " Memory ")
	t.Setenv("DISTANCE_TIMEOUT", "750ms")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("KAFKA_HOST", "k1:9092, k2:9092,")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 750*time.Millisecond, cfg.DistanceTimeout)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers())
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=orders_from_file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DB_NAME") })

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "orders_from_file", cfg.DBName)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"memory needs no database", func(c *Config) { c.StorageDriver = StorageDriverMemory; c.DBHost = "" }, true},
		{"unknown driver", func(c *Config) { c.StorageDriver = "sqlite" }, false},
		{"missing api key", func(c *Config) { c.APIKey = "" }, false},
		{"zero timeout", func(c *Config) { c.DistanceTimeout = 0 }, false},
		{"missing port", func(c *Config) { c.HTTPPort = "" }, false},
		{"postgres without host", func(c *Config) { c.DBHost = "" }, false},
		{"cache without ttl", func(c *Config) { c.RedisAddr = "localhost:6379" }, false},
		{"kafka without topic", func(c *Config) { c.KafkaHost = "localhost:9092" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSslMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
