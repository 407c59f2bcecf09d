package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/analytics"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/audit"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/filtering"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/ingestion"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/cache"
	"github.com/PavaniTiago/leads-intelligence-api/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	leadsKey = "leads"

	SourceMemory   = "memory"
	SourceSnapshot = "snapshot"
	SourceWebhook  = "webhook"
	SourceUpload   = "upload"
	SourceStale    = "stale_snapshot"
)

// Fetcher busca o payload bruto do webhook.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Recorder recebe contadores do caso de uso (Prometheus em produção).
type Recorder interface {
	Load(source string)
	ValidationIssue(code string)
	ObserveIngest(source string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Load(string)                          {}
func (nopRecorder) ValidationIssue(string)               {}
func (nopRecorder) ObserveIngest(string, time.Duration) {}

// LeadQuery representa os filtros de uma consulta do dashboard.
type LeadQuery struct {
	Range    entities.DateRange    `json:"range"`
	Filter   entities.StatusFilter `json:"filter"`
	Temporal bool                  `json:"temporal"`
}

// MetricsResult traz as métricas e as identidades que não fecharam.
type MetricsResult struct {
	Metrics entities.StandardizedMetrics `json:"metrics"`
	Issues  []analytics.Issue            `json:"issues"`
	Query   LeadQuery                    `json:"query"`
}

// LeadUseCase define as operações sobre a coleção de leads.
type LeadUseCase interface {
	Refresh(ctx context.Context) (ingestion.Result, error)
	IngestPayload(ctx context.Context, source string, payload []byte) (ingestion.Result, error)
	Leads(ctx context.Context, q LeadQuery) ([]entities.Lead, error)
	Metrics(ctx context.Context, q LeadQuery) (MetricsResult, error)
	Hourly(ctx context.Context, q LeadQuery) ([]entities.HourlyBucket, error)
	Daily(ctx context.Context, q LeadQuery) ([]entities.DailyPoint, error)
	MonthlyRevenue(ctx context.Context, q LeadQuery) ([]entities.MonthlyRevenue, error)
	Breakdown(ctx context.Context, q LeadQuery, by analytics.Dimension) ([]entities.BreakdownRow, error)
}

// LeadDeps reúne as dependências do caso de uso. Snapshots e Recorder são opcionais.
type LeadDeps struct {
	Fetcher      Fetcher
	Snapshots    repositories.LeadSnapshotRepository
	Pipeline     *ingestion.Pipeline
	Engine       *analytics.Engine
	Cache        *cache.Cache[[]entities.Lead]
	Audit        *audit.Logger
	Recorder     Recorder
	Location     *time.Location
	CacheTTL     time.Duration
	SnapshotKeep int
}

type leadUseCase struct {
	LeadDeps
	group singleflight.Group
	now   func() time.Time
}

func NewLeadUseCase(deps LeadDeps) LeadUseCase {
	if deps.Pipeline == nil {
		deps.Pipeline = ingestion.NewPipeline(nil, nil, deps.Audit)
	}
	if deps.Engine == nil {
		deps.Engine = analytics.NewEngine(nil)
	}
	if deps.Cache == nil {
		deps.Cache = cache.New[[]entities.Lead](deps.CacheTTL, cache.WithJanitorInterval(0))
	}
	if deps.Audit == nil {
		deps.Audit = audit.NewLogger(audit.Nop, "leads")
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.Location == nil {
		deps.Location = utils.GetBrasilLocation()
	}
	return &leadUseCase{LeadDeps: deps, now: time.Now}
}

// Refresh busca o webhook e substitui a coleção em cache.
func (uc *leadUseCase) Refresh(ctx context.Context) (ingestion.Result, error) {
	v, err, _ := uc.group.Do("refresh", func() (any, error) {
		return uc.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return ingestion.Result{}, err
	}
	return v.(ingestion.Result), nil
}

func (uc *leadUseCase) refresh(ctx context.Context) (ingestion.Result, error) {
	if uc.Fetcher == nil {
		return ingestion.Result{}, fmt.Errorf("no webhook fetcher configured")
	}
	body, err := uc.Fetcher.Fetch(ctx)
	if err != nil {
		uc.Audit.Error(ctx, "webhook fetch failed", map[string]any{"error": err.Error()})
		return ingestion.Result{}, fmt.Errorf("error fetching leads: %w", err)
	}
	return uc.IngestPayload(ctx, SourceWebhook, body)
}

// IngestPayload processa um payload bruto, grava o snapshot e atualiza o cache.
// Falhas ao gravar o snapshot são registradas mas não invalidam a ingestão.
func (uc *leadUseCase) IngestPayload(ctx context.Context, source string, payload []byte) (ingestion.Result, error) {
	started := time.Now()
	res, err := uc.Pipeline.IngestJSON(ctx, payload)
	if err != nil {
		return res, err
	}
	uc.Recorder.ObserveIngest(source, time.Since(started))

	if uc.Snapshots != nil {
		snap := &entities.LeadSnapshot{
			Source:      source,
			RawPayload:  string(payload),
			FailedRows:  res.Failed,
			DroppedRows: res.Dropped,
		}
		if err := uc.Snapshots.Save(ctx, snap, res.Leads); err != nil {
			uc.Audit.Warn(ctx, "snapshot not saved", map[string]any{"error": err.Error(), "session": res.SessionID})
		} else if removed, err := uc.Snapshots.Prune(ctx, uc.SnapshotKeep); err != nil {
			uc.Audit.Warn(ctx, "snapshot prune failed", map[string]any{"error": err.Error()})
		} else if removed > 0 {
			uc.Audit.Debug(ctx, "snapshots pruned", map[string]any{"removed": removed})
		}
	}

	uc.Cache.Set(leadsKey, res.Leads)
	uc.Recorder.Load(source)
	return res, nil
}

// load devolve a coleção completa: cache em memória, snapshot recente, webhook
// e, se o webhook falhar, o último snapshot mesmo que antigo.
func (uc *leadUseCase) load(ctx context.Context) ([]entities.Lead, error) {
	if leads, ok := uc.Cache.Get(leadsKey); ok {
		uc.Recorder.Load(SourceMemory)
		return leads, nil
	}

	v, err, _ := uc.group.Do(leadsKey, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if leads, ok := uc.Cache.Get(leadsKey); ok {
			return leads, nil
		}

		snap, snapLeads := uc.latestSnapshot(ctx)
		if snap != nil && uc.fresh(snap) {
			uc.Cache.Set(leadsKey, snapLeads)
			uc.Recorder.Load(SourceSnapshot)
			return snapLeads, nil
		}

		res, err := uc.refresh(ctx)
		if err == nil {
			return res.Leads, nil
		}
		if snap != nil {
			uc.Audit.Warn(ctx, "serving stale snapshot", map[string]any{
				"snapshot_id": snap.SnapshotID,
				"created_at":  snap.CreatedAt,
				"error":       err.Error(),
			})
			uc.Cache.Set(leadsKey, snapLeads)
			uc.Recorder.Load(SourceStale)
			return snapLeads, nil
		}
		if errors.Is(err, ingestion.ErrEmptyBatch) || errors.Is(err, ingestion.ErrNotArray) {
			uc.Audit.Warn(ctx, "webhook batch rejected, serving empty collection", map[string]any{"error": err.Error()})
			empty := []entities.Lead{}
			uc.Cache.Set(leadsKey, empty)
			uc.Recorder.Load(SourceWebhook)
			return empty, nil
		}
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]entities.Lead), nil
}

func (uc *leadUseCase) latestSnapshot(ctx context.Context) (*entities.LeadSnapshot, []entities.Lead) {
	if uc.Snapshots == nil {
		return nil, nil
	}
	snap, leads, err := uc.Snapshots.Latest(ctx)
	if err != nil {
		if !errors.Is(err, repositories.ErrNoSnapshot) {
			uc.Audit.Warn(ctx, "snapshot read failed", map[string]any{"error": err.Error()})
		}
		return nil, nil
	}
	return snap, leads
}

func (uc *leadUseCase) fresh(snap *entities.LeadSnapshot) bool {
	if uc.CacheTTL <= 0 {
		return true
	}
	return uc.now().Sub(snap.CreatedAt) < uc.CacheTTL
}

func (uc *leadUseCase) filtered(ctx context.Context, q LeadQuery, temporal bool) ([]entities.Lead, error) {
	leads, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	return filtering.Apply(leads, q.Range, q.Filter, filtering.Options{Temporal: temporal, Location: uc.Location}), nil
}

func (uc *leadUseCase) Leads(ctx context.Context, q LeadQuery) ([]entities.Lead, error) {
	return uc.filtered(ctx, q, q.Temporal)
}

// Metrics recalcula as métricas a cada chamada e registra as identidades que falharem.
func (uc *leadUseCase) Metrics(ctx context.Context, q LeadQuery) (MetricsResult, error) {
	leads, err := uc.filtered(ctx, q, q.Temporal)
	if err != nil {
		return MetricsResult{}, err
	}

	m := uc.Engine.Compute(leads)
	issues := analytics.Validate(m)
	for _, issue := range issues {
		uc.Recorder.ValidationIssue(issue.Code)
		uc.Audit.Warn(ctx, "metrics validation failed", map[string]any{
			"code":     issue.Code,
			"message":  issue.Message,
			"expected": issue.Expected,
			"actual":   issue.Actual,
		})
	}
	if issues == nil {
		issues = []analytics.Issue{}
	}
	return MetricsResult{Metrics: m, Issues: issues, Query: q}, nil
}

func (uc *leadUseCase) Hourly(ctx context.Context, q LeadQuery) ([]entities.HourlyBucket, error) {
	leads, err := uc.filtered(ctx, q, q.Temporal)
	if err != nil {
		return nil, err
	}
	return uc.Engine.HourlyDistribution(leads), nil
}

// Daily é sempre temporal: leads sem data não entram na série.
func (uc *leadUseCase) Daily(ctx context.Context, q LeadQuery) ([]entities.DailyPoint, error) {
	leads, err := uc.filtered(ctx, q, true)
	if err != nil {
		return nil, err
	}
	return uc.Engine.DailyTrend(leads, q.Range.From, q.Range.To, uc.Location), nil
}

func (uc *leadUseCase) MonthlyRevenue(ctx context.Context, q LeadQuery) ([]entities.MonthlyRevenue, error) {
	leads, err := uc.filtered(ctx, q, true)
	if err != nil {
		return nil, err
	}
	return uc.Engine.MonthlyRevenue(leads, uc.Location), nil
}

func (uc *leadUseCase) Breakdown(ctx context.Context, q LeadQuery, by analytics.Dimension) ([]entities.BreakdownRow, error) {
	leads, err := uc.filtered(ctx, q, q.Temporal)
	if err != nil {
		return nil, err
	}
	return uc.Engine.Breakdown(leads, by), nil
}
