package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"PUBLIC_BASE_URL": "https://dinnerbell.app/",
		"JWT_SECRET":      "s3cret",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/dinnerbell?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "https://dinnerbell.app", cfg.PublicBaseURL)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.False(t, cfg.IsSQLite())
	assert.False(t, cfg.DevLoginEnabled())
}

func TestFromEnv_SQLite(t *testing.T) {
	vars := baseEnv()
	vars["DATABASE_URL"] = "sqlite:///tmp/dinnerbell.db"
	cfg, err := FromEnv(env(vars))
	require.NoError(t, err)
	assert.True(t, cfg.IsSQLite())
	assert.Equal(t, "/tmp/dinnerbell.db", cfg.SQLitePath())
}

func TestFromEnv_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing base url":   {"JWT_SECRET": "x"},
		"relative base url":  {"JWT_SECRET": "x", "PUBLIC_BASE_URL": "/invite"},
		"missing jwt secret": {"PUBLIC_BASE_URL": "https://dinnerbell.app"},
		"bad database url":   {"JWT_SECRET": "x", "PUBLIC_BASE_URL": "https://a.b", "DATABASE_URL": "localhost"},
		"bad smtp port":      {"JWT_SECRET": "x", "PUBLIC_BASE_URL": "https://a.b", "SMTP_PORT": "abc"},
		"bad sweep interval": {"JWT_SECRET": "x", "PUBLIC_BASE_URL": "https://a.b", "SWEEP_INTERVAL": "often"},
		"tiny sweep":         {"JWT_SECRET": "x", "PUBLIC_BASE_URL": "https://a.b", "SWEEP_INTERVAL": "10ms"},
		"empty sqlite path":  {"JWT_SECRET": "x", "PUBLIC_BASE_URL": "https://a.b", "DATABASE_URL": "sqlite://"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_DevLogin(t *testing.T) {
	vars := baseEnv()
	vars["APP_ENV"] = "development"
	vars["DEV_EMAIL"] = "dev@example.com"
	vars["DEV_PASSWORD"] = "pw"
	_, err := FromEnv(env(vars))
	require.Error(t, err)

	vars["DEV_USER_ID"] = "dev-user"
	cfg, err := FromEnv(env(vars))
	require.NoError(t, err)
	assert.True(t, cfg.DevLoginEnabled())
}

func TestFromEnv_SMTPPortDefault(t *testing.T) {
	vars := baseEnv()
	vars["SMTP_HOST"] = "smtp.example.com"
	cfg, err := FromEnv(env(vars))
	require.NoError(t, err)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, 587, cfg.SMTPPort)
}
