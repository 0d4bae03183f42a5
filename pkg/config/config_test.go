package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DB_NAME")
	os.Unsetenv("OPENAI_MODEL")
	os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "healthcare_navigator", cfg.Database.Database)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "healthcare-cost-navigator", cfg.OTEL.ServiceName)
	assert.False(t, cfg.App.Debug)
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("OPENAI_API_KEY", "sk-test")
	os.Setenv("APP_DEBUG", "true")
	defer func() {
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_PORT")
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("APP_DEBUG")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.True(t, cfg.App.Debug)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Database: "healthcare_navigator",
		SSLMode:  "disable",
	}

	dsn := cfg.DatabaseDSN()
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=healthcare_navigator sslmode=disable", dsn)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("SERVER_PORT", "not-a-number")
	defer os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}
