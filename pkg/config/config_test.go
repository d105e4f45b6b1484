package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10.0, cfg.Grading.ScaleMax)
	assert.False(t, cfg.Advisor.Enabled)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.Advisor.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Advisor.Timeout)
	assert.Equal(t, 100, cfg.Advisor.MaxChatSessions)
	assert.True(t, cfg.Reports.Enabled)
	assert.False(t, cfg.Reports.JobsEnabled)
	assert.Equal(t, "./exports", cfg.Reports.StorageDir)
	assert.Equal(t, 24*time.Hour, cfg.Reports.SignedURLTTL)
	assert.Equal(t, 3, cfg.Reports.WorkerRetries)
	assert.Equal(t, "sma-pulse-api", cfg.Tracing.ServiceName)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("ADVISOR_TIMEOUT", "bogus")
	t.Setenv("GRADE_SCALE_MAX", "100")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("ADVISOR_BASE_URL", "http://llm.test/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "legacy-key", cfg.Advisor.APIKey)
	assert.Equal(t, 20*time.Second, cfg.Advisor.Timeout)
	assert.Equal(t, 100.0, cfg.Grading.ScaleMax)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "http://llm.test", cfg.Advisor.BaseURL)
}

func TestAdvisorKeyTakesPrecedence(t *testing.T) {
	chdirTemp(t)
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("ADVISOR_API_KEY", "primary-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.Advisor.APIKey)
}
