package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// chdir mirrors testing.T.Chdir (Go 1.24+): change directory and restore it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("does-not-exist.toml")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "techy", cfg.UI.DefaultTheme)
	assert.Equal(t, "inbox", cfg.UI.DefaultFolder)
	assert.Equal(t, []string{"circleci", "vercel"}, cfg.Classifier.CISenders)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, time.Minute, cfg.RateWindow())
}

func TestLoadConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
[server]
port = 8080
session_expiry = "2h"

[transport]
delay_ms = 50
failure_rate = 0.25

[classifier]
ci_senders = ["jenkins"]

[ui]
default_theme = "night"

[ui.keys]
n = "next"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionExpiry())
	assert.Equal(t, 50*time.Millisecond, cfg.SendDelay())
	assert.Equal(t, 0.25, cfg.Transport.FailureRate)
	assert.Equal(t, []string{"jenkins"}, cfg.Classifier.CISenders)
	assert.Equal(t, []string{"sentry", "error"}, cfg.Classifier.AlertSenders)
	assert.Equal(t, "night", cfg.UI.DefaultTheme)
	assert.Equal(t, map[string]string{"n": "next"}, cfg.UI.Keys)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("XMAIL_DATA_DIR", "/tmp/xmail")
	t.Setenv("XMAIL_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(writeConfig(t, "[server]\nport = 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "/tmp/xmail", cfg.Storage.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("XMAIL_DATA_DIR=from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("XMAIL_DATA_DIR") })

	cfg, err := LoadConfig("missing.toml")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Storage.DataDir)
}

func TestLoadConfigInvalid(t *testing.T) {
	chdir(t, t.TempDir())

	tests := map[string]string{
		"bad toml":     "[server\nport = 1",
		"bad port":     "[server]\nport = 70000",
		"bad failure":  "[transport]\nfailure_rate = 2.0",
		"bad window":   "[rate_limit]\nwindow = \"soon\"",
		"ssl no cert":  "[ssl]\nenabled = true",
		"empty secret": "[jwt]\nsecret = \"\"",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnvRejectsBadPort(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(key string) (string, bool) {
		if key == "PORT" {
			return "eighty", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.GetSecurityHeaders())

	cfg.SSL.Enabled = true
	cfg.SSL.Domain = "mail.example.com"
	assert.Equal(t, "max-age=31536000; includeSubDomains", cfg.GetSecurityHeaders()["Strict-Transport-Security"])
}
