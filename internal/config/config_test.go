package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db.local"
port = 5432
user = "svc"
password = "secret"
dbname = "reservations"

[service]
timezone = "Europe/Moscow"
sweep_interval_seconds = 30
reminder_lead_minutes = 15

[catalog_service]
url = "http://catalog:8081"
timeout = 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "Europe/Moscow", cfg.Service.Timezone)
	assert.Equal(t, 30, cfg.Service.SweepIntervalSeconds)
	assert.Equal(t, 15, cfg.Service.ReminderLeadMinutes)
	assert.Equal(t, "http://catalog:8081", cfg.CatalogService.URL)

	// Не заданные поля получают значения по умолчанию
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 45, cfg.Service.SweepTimeoutSeconds)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_DefaultTimezone(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Africa/Algiers", cfg.Service.Timezone)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	path := writeConfig(t, `
[service]
timezone = "Mars/Olympus"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		User:     "svc",
		Password: "secret",
		DBName:   "reservations",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.local port=5433 user=svc password=secret dbname=reservations sslmode=require",
		d.DSN())
}
