package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("QUEUE_BACKEND", "local")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, QueueLocal, cfg.QueueBackend)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.False(t, cfg.NeedsRedis())
}

func TestLoadConfig_ProviderAndDispatch(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("QUEUE_BACKEND", "local")
	t.Setenv("ALERT_PROVIDER", "Exotel")
	t.Setenv("EXOTEL_API_KEY", "key")
	t.Setenv("EXOTEL_CALLER_ID", "08012345678")
	t.Setenv("ALERT_MAX_RETRIES", "4")
	t.Setenv("ALERT_RETRY_DELAY", "250")
	t.Setenv("CALL_TIME_LIMIT", "45s")
	t.Setenv("API_KEYS", "one, two")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Exotel", cfg.Provider.Name)
	assert.Equal(t, "key", cfg.Provider.Exotel.APIKey)
	assert.Equal(t, "08012345678", cfg.Provider.Exotel.CallerID)
	assert.Equal(t, 4, cfg.Dispatch.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Dispatch.RetryDelay)
	assert.Equal(t, 45*time.Second, cfg.Provider.CallTimeLimit)
	assert.Equal(t, []string{"one", "two"}, cfg.APIKeys)
}

func TestLoadConfig_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("QUEUE_BACKEND", "local")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_UnknownBackends(t *testing.T) {
	cfg := &Config{StorageBackend: "mongo", QueueBackend: QueueLocal}
	assert.ErrorContains(t, cfg.Validate(), "STORAGE_BACKEND")

	cfg = &Config{StorageBackend: StorageMemory, QueueBackend: "kafka"}
	assert.ErrorContains(t, cfg.Validate(), "QUEUE_BACKEND")
}

func TestNeedsRedis(t *testing.T) {
	cfg := &Config{StorageBackend: StoragePostgres, QueueBackend: QueueLocal}
	assert.False(t, cfg.NeedsRedis())

	cfg.IncidentCache = true
	assert.True(t, cfg.NeedsRedis())

	cfg = &Config{StorageBackend: StorageMemory, QueueBackend: QueueRedis}
	assert.True(t, cfg.NeedsRedis())
}

func TestLoadConfig_GupshupDefaults(t *testing.T) {
	t.Setenv("ALERT_PROVIDER", "gupshup")
	t.Setenv("GUPSHUP_USER_ID", "2000123")
	t.Setenv("GUPSHUP_PASSWORD", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gupshup", cfg.Provider.Name)
	assert.Equal(t, "2000123", cfg.Provider.Gupshup.UserID)
	assert.Equal(t, "GSDSMS", cfg.Provider.Gupshup.Source)
	assert.Equal(t, "https://enterprise.smsgupshup.com/GatewayAPI/rest", cfg.Provider.Gupshup.BaseURL)
}
