package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "1 0 * * *", cfg.Automation.DailyScheduleSpec)
	assert.Equal(t, 10*time.Minute, cfg.Automation.LockTTL)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qc.yaml")
	content := `
server:
  port: 8080
database:
  driver: sqlite
  url: "file::memory:"
kafka:
  brokers: [k1:9092]
  topic: nc
automation:
  sheet_retention_days: 30
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LISTEN_PORT", "9090")
	t.Setenv("KAFKA_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN())
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.Automation.SheetRetentionDays)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestKafkaBrokersFromEnv(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "1")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Kafka.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timezone = "UTC"
	assert.NoError(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	d := Default().Database
	d.Password = "secret"
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=postgres sslmode=disable search_path=public", d.DSN())
}
