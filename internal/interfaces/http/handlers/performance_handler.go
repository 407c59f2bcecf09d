package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/repositories"
)

// PerformanceHandler expõe o estado do cache persistente e quanto custa lê-lo.
type PerformanceHandler struct {
	snapshots repositories.LeadSnapshotRepository
	now       func() time.Time
}

func NewPerformanceHandler(snapshots repositories.LeadSnapshotRepository) *PerformanceHandler {
	return &PerformanceHandler{
		snapshots: snapshots,
		now:       time.Now,
	}
}

// GetSnapshotStats mede a contagem e a leitura do snapshot mais recente.
func (h *PerformanceHandler) GetSnapshotStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	startCount := time.Now()
	total, err := h.snapshots.Count(ctx)
	if err != nil {
		return internalError(c, "Erro ao contar snapshots", err)
	}
	countDuration := time.Since(startCount)

	startLatest := time.Now()
	snapshot, leads, err := h.snapshots.Latest(ctx)
	latestDuration := time.Since(startLatest)

	resp := fiber.Map{
		"snapshots": total,
		"count_query": fiber.Map{
			"duration_ms": countDuration.Milliseconds(),
		},
		"latest_query": fiber.Map{
			"duration_ms": latestDuration.Milliseconds(),
		},
	}

	switch {
	case errors.Is(err, repositories.ErrNoSnapshot):
		resp["latest"] = nil
	case err != nil:
		return internalError(c, "Erro ao carregar snapshot", err)
	default:
		resp["latest"] = fiber.Map{
			"snapshot_id":  snapshot.SnapshotID,
			"source":       snapshot.Source,
			"lead_count":   snapshot.LeadCount,
			"decoded":      len(leads),
			"failed_rows":  snapshot.FailedRows,
			"dropped_rows": snapshot.DroppedRows,
			"created_at":   snapshot.CreatedAt.Format(time.RFC3339),
			"age_seconds":  int64(h.now().Sub(snapshot.CreatedAt).Seconds()),
		}
	}

	return c.JSON(resp)
}
