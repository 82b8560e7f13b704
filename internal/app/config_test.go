package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")
	t.Setenv("CONTACTS_BASE_URL", "https://contacts.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "https://contacts.example.com", cfg.ContactsBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ContactsTimeout)
	assert.Equal(t, 30*time.Minute, cfg.DirectoryIdleTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "c")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadContactsConfigRejectsRelativeURL(t *testing.T) {
	t.Setenv("CONTACTS_BASE_URL", "/contacts")
	_, err := LoadContactsConfig()
	assert.Error(t, err)

	t.Setenv("CONTACTS_BASE_URL", "http://localhost:3000")
	t.Setenv("CONTACTS_TIMEOUT", "5s")
	cfg, err := LoadContactsConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.ContactsTimeout)
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&Config{LogFormat: "json"}, &buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	newLogger(&Config{LogFormat: "pretty", AppEnv: "production"}, &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
