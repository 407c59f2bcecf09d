package migrations

import (
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"gorm.io/gorm"
)

// Migrate cria ou atualiza as tabelas do cache de snapshots.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&entities.LeadSnapshot{})
}
