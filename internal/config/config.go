// Package config carrega a configuração do serviço a partir do ambiente (.env opcional).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/audit"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config reúne as chaves de ambiente do serviço.
type Config struct {
	Port string

	DatabaseURL  string
	CacheDriver  string
	SQLitePath   string
	SnapshotKeep int

	WebhookURL     string
	WebhookTimeout time.Duration
	WebhookRetries int

	LeadsCacheTTL   time.Duration
	IngestChunkSize int

	SupabaseURL      string
	SupabaseKey      string
	SupabaseLogTable string
	SupabaseLogLevel string

	JWTSecret   string
	CORSOrigins string

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("CACHE_DRIVER", DriverPostgres)
	v.SetDefault("SQLITE_PATH", "leads.db")
	v.SetDefault("SNAPSHOT_KEEP", 10)
	v.SetDefault("WEBHOOK_TIMEOUT", 30*time.Second)
	v.SetDefault("WEBHOOK_RETRIES", 3)
	v.SetDefault("LEADS_CACHE_TTL", 5*time.Minute)
	v.SetDefault("INGEST_CHUNK_SIZE", 50)
	v.SetDefault("SUPABASE_LOG_TABLE", "system_logs")
	v.SetDefault("SUPABASE_LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load lê o .env (quando existir) e depois o ambiente.
func Load() (*Config, error) {
	// .env ausente não é erro: em produção as variáveis vêm do container
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return FromViper(v)
}

// FromViper monta a Config a partir de uma instância já preenchida.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		CacheDriver:      strings.ToLower(strings.TrimSpace(v.GetString("CACHE_DRIVER"))),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		SnapshotKeep:     v.GetInt("SNAPSHOT_KEEP"),
		WebhookURL:       strings.TrimSpace(v.GetString("WEBHOOK_URL")),
		WebhookTimeout:   v.GetDuration("WEBHOOK_TIMEOUT"),
		WebhookRetries:   v.GetInt("WEBHOOK_RETRIES"),
		LeadsCacheTTL:    v.GetDuration("LEADS_CACHE_TTL"),
		IngestChunkSize:  v.GetInt("INGEST_CHUNK_SIZE"),
		SupabaseURL:      v.GetString("SUPABASE_URL"),
		SupabaseKey:      v.GetString("SUPABASE_KEY"),
		SupabaseLogTable: v.GetString("SUPABASE_LOG_TABLE"),
		SupabaseLogLevel: strings.ToLower(strings.TrimSpace(v.GetString("SUPABASE_LOG_LEVEL"))),
		JWTSecret:        v.GetString("JWT_SECRET"),
		CORSOrigins:      v.GetString("CORS_ORIGINS"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:        strings.ToLower(v.GetString("LOG_FORMAT")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate confere as combinações que impedem o serviço de subir.
func (c *Config) Validate() error {
	switch c.CacheDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not defined in the environment")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when CACHE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("invalid CACHE_DRIVER: %q", c.CacheDriver)
	}
	if c.WebhookRetries < 0 {
		return fmt.Errorf("WEBHOOK_RETRIES must not be negative")
	}
	if c.IngestChunkSize <= 0 {
		return fmt.Errorf("INGEST_CHUNK_SIZE must be positive")
	}
	if _, err := audit.ParseLevel(c.SupabaseLogLevel); err != nil {
		return fmt.Errorf("invalid SUPABASE_LOG_LEVEL: %w", err)
	}
	return nil
}

// SupabaseEnabled indica se o sink de auditoria no Supabase deve ser criado.
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}
