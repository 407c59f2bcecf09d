package migrations

import (
	"gorm.io/gorm"
)

// OptimizePerformanceIndexes adiciona índices que só existem no postgres.
// No sqlite não faz nada.
func OptimizePerformanceIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	// Índice BRIN para consultas por período (snapshots são gravados em ordem cronológica)
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_lead_snapshots_created_at_brin ON lead_snapshots USING BRIN (created_at)`).Error; err != nil {
		return err
	}

	// Índice parcial para snapshots com falhas, consultados na auditoria
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_lead_snapshots_failed ON lead_snapshots (created_at) WHERE failed_rows > 0`).Error; err != nil {
		return err
	}
	return nil
}
