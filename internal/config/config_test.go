package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhinavj12/hackfest-2025/internal/config"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "LOG_LEVEL", "VERSION", "MONGODB_URI", "MONGODB_DATABASE", "MONGODB_TIMEOUT",
		"MAX_TEAMS", "FRONTEND_URL", "STATIC_DIR", "RATE_LIMIT_PER_WINDOW", "REGISTER_LIMIT_PER_HOUR",
		"ADMIN_TOKEN_SECRET", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
		"SMTP_TIMEOUT", "EVENT_NAME", "EVENT_DATE", "EVENT_VENUE", "CONTACT_EMAIL",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "hackfest2025", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Second, cfg.MongoTimeout)
	assert.Equal(t, 1000, cfg.MaxTeams)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 100, cfg.RateLimitPerWindow)
	assert.Equal(t, 5, cfg.RegisterLimitPerHour)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "HackFest 2025", cfg.Event.Name)
	assert.False(t, cfg.SMTP.Configured())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		assertFn func(t *testing.T, cfg *config.Config)
	}{
		{
			name:    "capacity cap",
			envVars: map[string]string{"MAX_TEAMS": "25"},
			assertFn: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 25, cfg.MaxTeams)
			},
		},
		{
			name:    "production env",
			envVars: map[string]string{"APP_ENV": "production"},
			assertFn: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.IsProduction())
			},
		},
		{
			name:    "smtp credentials",
			envVars: map[string]string{"SMTP_USERNAME": "bot@hackfest.dev", "SMTP_PASSWORD": "secret", "SMTP_PORT": "465"},
			assertFn: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.SMTP.Configured())
				assert.Equal(t, 465, cfg.SMTP.Port)
				assert.Equal(t, "bot@hackfest.dev", cfg.SMTP.Sender())
			},
		},
		{
			name:    "explicit sender",
			envVars: map[string]string{"SMTP_USERNAME": "bot@hackfest.dev", "SMTP_FROM": "HackFest <noreply@hackfest.dev>"},
			assertFn: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "HackFest <noreply@hackfest.dev>", cfg.SMTP.Sender())
			},
		},
		{
			name:    "mongo timeout",
			envVars: map[string]string{"MONGODB_TIMEOUT": "3s"},
			assertFn: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 3*time.Second, cfg.MongoTimeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			require.NoError(t, err)
			tt.assertFn(t, cfg)
		})
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("MAX_TEAMS", "lots")

	cfg, err := config.Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
