package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes adiciona os índices usados pela leitura do snapshot mais recente
func AddIndexes(db *gorm.DB) error {
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_lead_snapshots_source_created_at ON lead_snapshots (source, created_at)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_lead_snapshots_created_desc ON lead_snapshots (created_at DESC, snapshot_id DESC)").Error; err != nil {
		return err
	}
	return nil
}
