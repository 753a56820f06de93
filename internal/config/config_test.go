package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DISCORD_APP_ID", "test-app")
	t.Setenv("DOWNLOAD_DIR", filepath.Join(t.TempDir(), "downloads"))
	t.Setenv("PUBLIC_HOST", "media.example")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.DiscordToken)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JobTimeout)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Debug)
	assert.DirExists(t, cfg.DownloadDir, "Load must create the download dir")
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("JOB_TIMEOUT", "90m")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PROXY_URLS", "http://p1:8080,http://p2:8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JobTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"http://p1:8080", "http://p2:8080"}, cfg.ProxyURLs)
}

func TestLoadMissingToken(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("DISCORD_TOKEN")

	_, err := Load()
	assert.Error(t, err)
}

func TestPublicBaseURL(t *testing.T) {
	cfg := &Config{PublicHost: "10.1.2.3", Port: "8080"}
	assert.Equal(t, "http://10.1.2.3:8080", cfg.PublicBaseURL())
}
