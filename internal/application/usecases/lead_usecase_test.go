package usecases

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/analytics"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/audit"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/ingestion"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/dates"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/leads-intelligence-api/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `[
	{"Data": "03/03/2025", "Nome": "Ana", "Status": "Fechou", "Closer": "Bruna", "Valor Venda": "R$ 2.000,50"},
	{"Data": "03/03/2025", "Nome": "Beto", "Status": "Agendado", "Closer": "Carlos"},
	{"Data": "05/03/2025", "Nome": "Caio", "Status": "Não Apareceu", "Closer": "Bruna"},
	{"Data": "ontem", "Nome": "Duda", "Status": "Não Fechou"},
	{"Nome": "Edu", "Status": "Mentorado"}
]`

type fakeFetcher struct {
	calls int32
	body  []byte
	err   error
	delay time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.body, f.err
}

type memorySnapshots struct {
	mu    sync.Mutex
	snaps []entities.LeadSnapshot
	leads [][]entities.Lead
}

func (m *memorySnapshots) Save(_ context.Context, s *entities.LeadSnapshot, leads []entities.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.LeadCount = len(leads)
	m.snaps = append(m.snaps, *s)
	m.leads = append(m.leads, leads)
	return nil
}

func (m *memorySnapshots) Latest(context.Context) (*entities.LeadSnapshot, []entities.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snaps) == 0 {
		return nil, nil, repositories.ErrNoSnapshot
	}
	last := len(m.snaps) - 1
	s := m.snaps[last]
	return &s, m.leads[last], nil
}

func (m *memorySnapshots) Prune(_ context.Context, keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if keep <= 0 || len(m.snaps) <= keep {
		return 0, nil
	}
	removed := len(m.snaps) - keep
	m.snaps = m.snaps[removed:]
	m.leads = m.leads[removed:]
	return int64(removed), nil
}

func (m *memorySnapshots) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.snaps)), nil
}

type countingRecorder struct {
	mu     sync.Mutex
	loads  []string
	issues []string
}

func (r *countingRecorder) Load(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads = append(r.loads, source)
}

func (r *countingRecorder) ValidationIssue(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues = append(r.issues, code)
}

func (r *countingRecorder) ObserveIngest(string, time.Duration) {}

type fixture struct {
	uc        LeadUseCase
	fetcher   *fakeFetcher
	snapshots *memorySnapshots
	recorder  *countingRecorder
	audit     *audit.Recorder
}

func newFixture(t *testing.T, fetcher *fakeFetcher) *fixture {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	rec := &audit.Recorder{}
	log := audit.NewLogger(rec, "leads")
	c := cache.New[[]entities.Lead](time.Minute, cache.WithJanitorInterval(0))
	t.Cleanup(c.Stop)

	f := &fixture{
		fetcher:   fetcher,
		snapshots: &memorySnapshots{},
		recorder:  &countingRecorder{},
		audit:     rec,
	}
	f.uc = NewLeadUseCase(LeadDeps{
		Fetcher:      fetcher,
		Snapshots:    f.snapshots,
		Pipeline:     ingestion.NewPipeline(nil, dates.NewInterpreter(time.UTC, now), log),
		Engine:       analytics.NewEngine(nil),
		Cache:        c,
		Audit:        log,
		Recorder:     f.recorder,
		Location:     time.UTC,
		CacheTTL:     time.Minute,
		SnapshotKeep: 2,
	})
	f.uc.(*leadUseCase).now = now
	return f
}

func TestMetricsLoadsFromWebhookOnce(t *testing.T) {
	f := newFixture(t, &fakeFetcher{body: []byte(feed)})
	ctx := context.Background()

	res, err := f.uc.Metrics(ctx, LeadQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Metrics.TotalLeads)
	assert.Equal(t, 1, res.Metrics.Mentees)
	assert.Equal(t, 25.0, res.Metrics.CloseRate)
	assert.Equal(t, 2000.5, res.Metrics.TotalRevenue)
	assert.Empty(t, res.Issues)

	_, err = f.uc.Metrics(ctx, LeadQuery{})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.fetcher.calls))
	assert.Equal(t, []string{SourceWebhook, SourceMemory}, f.recorder.loads)

	count, _ := f.snapshots.Count(ctx)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 5, f.snapshots.snaps[0].LeadCount)
	assert.Equal(t, SourceWebhook, f.snapshots.snaps[0].Source)
}

func TestConcurrentLoadsCollapse(t *testing.T) {
	f := newFixture(t, &fakeFetcher{body: []byte(feed), delay: 20 * time.Millisecond})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Leads(context.Background(), LeadQuery{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.fetcher.calls))
}

func TestLoadPrefersFreshSnapshot(t *testing.T) {
	f := newFixture(t, &fakeFetcher{err: errors.New("down")})
	ctx := context.Background()
	require.NoError(t, f.snapshots.Save(ctx, &entities.LeadSnapshot{
		SnapshotID: "s1",
		CreatedAt:  time.Date(2025, 3, 10, 11, 59, 30, 0, time.UTC),
	}, []entities.Lead{{Sequence: 1, Name: "Ana", Status: "Fechou"}}))

	leads, err := f.uc.Leads(ctx, LeadQuery{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Zero(t, atomic.LoadInt32(&f.fetcher.calls))
	assert.Equal(t, []string{SourceSnapshot}, f.recorder.loads)
}

func TestLoadFallsBackToStaleSnapshot(t *testing.T) {
	f := newFixture(t, &fakeFetcher{err: errors.New("down")})
	ctx := context.Background()
	require.NoError(t, f.snapshots.Save(ctx, &entities.LeadSnapshot{
		SnapshotID: "old",
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}, []entities.Lead{{Sequence: 1, Name: "Ana"}}))

	leads, err := f.uc.Leads(ctx, LeadQuery{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.fetcher.calls))
	assert.Equal(t, []string{SourceStale}, f.recorder.loads)
	assert.NotEmpty(t, f.audit.ByLevel(audit.LevelError))
}

func TestLoadFailsWithoutAnySource(t *testing.T) {
	f := newFixture(t, &fakeFetcher{err: errors.New("down")})

	_, err := f.uc.Metrics(context.Background(), LeadQuery{})
	assert.ErrorContains(t, err, "down")
}

func TestLoadServesEmptyCollectionForEmptyFeed(t *testing.T) {
	f := newFixture(t, &fakeFetcher{body: []byte("[]")})
	ctx := context.Background()

	leads, err := f.uc.Leads(ctx, LeadQuery{})
	require.NoError(t, err)
	assert.Empty(t, leads)

	res, err := f.uc.Metrics(ctx, LeadQuery{})
	require.NoError(t, err)
	assert.Zero(t, res.Metrics.TotalLeads)

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.fetcher.calls))
	assert.Equal(t, []string{SourceWebhook, SourceMemory}, f.recorder.loads)
	assert.NotEmpty(t, f.audit.ByLevel(audit.LevelWarn))
}

func TestLoadServesEmptyCollectionForMalformedFeed(t *testing.T) {
	f := newFixture(t, &fakeFetcher{body: []byte(`{"ok": true}`)})

	leads, err := f.uc.Leads(context.Background(), LeadQuery{})
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestLoadPrefersStaleSnapshotOverEmptyFeed(t *testing.T) {
	f := newFixture(t, &fakeFetcher{body: []byte("[]")})
	ctx := context.Background()
	require.NoError(t, f.snapshots.Save(ctx, &entities.LeadSnapshot{
		SnapshotID: "old",
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}, []entities.Lead{{Sequence: 1, Name: "Ana"}}))

	leads, err := f.uc.Leads(ctx, LeadQuery{})
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, []string{SourceStale}, f.recorder.loads)
}

func TestNewLeadUseCaseWithoutCache(t *testing.T) {
	uc := NewLeadUseCase(LeadDeps{Fetcher: &fakeFetcher{body: []byte(feed)}})

	leads, err := uc.Leads(context.Background(), LeadQuery{})
	require.NoError(t, err)
	assert.Len(t, leads, 5)
	assert.False(t, uc.(*leadUseCase).Cache.HasJanitor())
}

func TestIngestPayloadRejectsBatch(t *testing.T) {
	f := newFixture(t, &fakeFetcher{})

	_, err := f.uc.IngestPayload(context.Background(), SourceUpload, []byte(`{"ok": true}`))
	assert.ErrorIs(t, err, ingestion.ErrNotArray)

	count, _ := f.snapshots.Count(context.Background())
	assert.Zero(t, count)
}

func TestIngestPayloadReplacesCollectionAndPrunes(t *testing.T) {
	f := newFixture(t, &fakeFetcher{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.uc.IngestPayload(ctx, SourceUpload, []byte(feed))
		require.NoError(t, err)
	}
	res, err := f.uc.IngestPayload(ctx, SourceUpload, []byte(`[{"Nome": "Zé", "Status": "Fechou"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Retained)

	leads, err := f.uc.Leads(ctx, LeadQuery{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Zé", leads[0].Name)

	count, _ := f.snapshots.Count(ctx)
	assert.Equal(t, int64(2), count)
	assert.Zero(t, atomic.LoadInt32(&f.fetcher.calls))
}

func TestTemporalQueries(t *testing.T) {
	f := newFixture(t, &fakeFetcher{body: []byte(feed)})
	ctx := context.Background()
	q := LeadQuery{Range: entities.DateRange{
		From: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}}

	lenient, err := f.uc.Leads(ctx, q)
	require.NoError(t, err)
	assert.Len(t, lenient, 5)

	q.Temporal = true
	strict, err := f.uc.Leads(ctx, q)
	require.NoError(t, err)
	assert.Len(t, strict, 3)

	daily, err := f.uc.Daily(ctx, q)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, entities.DailyPoint{Date: "2025-03-03", Leads: 2, Closings: 1, Revenue: 2000.5}, daily[0])
	assert.Equal(t, 1, daily[2].Leads)

	months, err := f.uc.MonthlyRevenue(ctx, q)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, "2025-03", months[0].Month)

	hourly, err := f.uc.Hourly(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, hourly[12].Leads)

	rows, err := f.uc.Breakdown(ctx, LeadQuery{}, analytics.ByCloser)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Bruna", rows[0].Key)
}
