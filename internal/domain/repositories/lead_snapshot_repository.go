package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoSnapshot indica que o cache persistente ainda não tem nenhum snapshot.
var ErrNoSnapshot = errors.New("no lead snapshot stored")

// LeadSnapshotRepository persiste os resultados de ingestão usados como cache entre reinícios.
type LeadSnapshotRepository interface {
	Save(ctx context.Context, snapshot *entities.LeadSnapshot, leads []entities.Lead) error
	Latest(ctx context.Context) (*entities.LeadSnapshot, []entities.Lead, error)
	Prune(ctx context.Context, keep int) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type leadSnapshotRepository struct {
	db *gorm.DB
}

func NewLeadSnapshotRepository(db *gorm.DB) LeadSnapshotRepository {
	return &leadSnapshotRepository{db: db}
}

// Save grava o snapshot com os leads serializados. ID e CreatedAt são preenchidos quando vazios.
func (r *leadSnapshotRepository) Save(ctx context.Context, snapshot *entities.LeadSnapshot, leads []entities.Lead) error {
	payload, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("error encoding leads: %w", err)
	}

	if snapshot.SnapshotID == "" {
		snapshot.SnapshotID = uuid.NewString()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}
	snapshot.LeadsPayload = string(payload)
	snapshot.LeadCount = len(leads)

	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("error saving snapshot: %w", err)
	}
	return nil
}

// Latest devolve o snapshot mais recente com os leads reidratados.
func (r *leadSnapshotRepository) Latest(ctx context.Context) (*entities.LeadSnapshot, []entities.Lead, error) {
	var snapshot entities.LeadSnapshot
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("snapshot_id DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching latest snapshot: %w", err)
	}

	leads := []entities.Lead{}
	if snapshot.LeadsPayload != "" {
		if err := json.Unmarshal([]byte(snapshot.LeadsPayload), &leads); err != nil {
			return nil, nil, fmt.Errorf("error decoding snapshot %s: %w", snapshot.SnapshotID, err)
		}
	}
	return &snapshot, leads, nil
}

// Prune mantém apenas os keep snapshots mais recentes. keep <= 0 não remove nada.
func (r *leadSnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entities.LeadSnapshot{}).
		Order("created_at DESC").
		Order("snapshot_id DESC").
		Pluck("snapshot_id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("error listing snapshots: %w", err)
	}
	if len(ids) <= keep {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("snapshot_id IN ?", ids[keep:]).
		Delete(&entities.LeadSnapshot{})
	if result.Error != nil {
		return 0, fmt.Errorf("error pruning snapshots: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *leadSnapshotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.LeadSnapshot{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting snapshots: %w", err)
	}
	return count, nil
}
