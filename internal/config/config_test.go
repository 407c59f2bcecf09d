package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]any{"DATABASE_URL": "postgres://localhost/leads"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.CacheDriver)
	assert.Equal(t, 30*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 3, cfg.WebhookRetries)
	assert.Equal(t, 5*time.Minute, cfg.LeadsCacheTTL)
	assert.Equal(t, 50, cfg.IngestChunkSize)
	assert.Equal(t, "system_logs", cfg.SupabaseLogTable)
	assert.Equal(t, "info", cfg.SupabaseLogLevel)
	assert.False(t, cfg.SupabaseEnabled())
}

func TestFromViperParsesEnvStrings(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]any{
		"CACHE_DRIVER":    "SQLite",
		"WEBHOOK_TIMEOUT": "5s",
		"LEADS_CACHE_TTL": "90s",
		"SUPABASE_URL":    "https://x.supabase.co",
		"SUPABASE_KEY":    "key",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.CacheDriver)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 90*time.Second, cfg.LeadsCacheTTL)
	assert.True(t, cfg.SupabaseEnabled())
}

func TestFromViperRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   string
	}{
		{"postgres sem url", map[string]any{}, "DATABASE_URL"},
		{"driver desconhecido", map[string]any{"CACHE_DRIVER": "redis"}, "CACHE_DRIVER"},
		{"chunk zero", map[string]any{"CACHE_DRIVER": "sqlite", "INGEST_CHUNK_SIZE": 0}, "INGEST_CHUNK_SIZE"},
		{"nível de auditoria", map[string]any{"CACHE_DRIVER": "sqlite", "SUPABASE_LOG_LEVEL": "verbose"}, "SUPABASE_LOG_LEVEL"},
		{"retries negativo", map[string]any{"CACHE_DRIVER": "sqlite", "WEBHOOK_RETRIES": -1}, "WEBHOOK_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(tt.values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&Config{LogLevel: "debug", LogFormat: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = NewLogger(&Config{LogLevel: "warn", LogFormat: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger(&Config{LogLevel: "loud", LogFormat: "json"})
	assert.Error(t, err)

	_, err = NewLogger(&Config{LogLevel: "info", LogFormat: "xml"})
	assert.Error(t, err)
}
