package database

import (
	"path/filepath"
	"testing"

	"github.com/PavaniTiago/leads-intelligence-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDatabaseSQLite(t *testing.T) {
	cfg := &config.Config{
		CacheDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "leads.db"),
	}

	db, err := SetupDatabase(cfg)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("lead_snapshots"))
	assert.True(t, db.Migrator().HasIndex("lead_snapshots", "idx_lead_snapshots_source_created_at"))

	// migrações são idempotentes
	require.NoError(t, Prepare(db))
}

func TestSetupDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := SetupDatabase(&config.Config{CacheDriver: "mongo"})
	assert.Error(t, err)

	_, err = SetupDatabase(&config.Config{CacheDriver: config.DriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")
}
