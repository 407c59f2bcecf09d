package analytics

import (
	"testing"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadsWithStatus(statuses map[string]int) []entities.Lead {
	var leads []entities.Lead
	seq := 1
	for _, s := range []string{status.Fechou, status.Agendado, status.NaoApareceu, status.Mentorado, status.NaoFechou, status.Desmarcou} {
		for i := 0; i < statuses[s]; i++ {
			leads = append(leads, entities.Lead{Sequence: seq, Name: "lead", Status: s})
			seq++
		}
	}
	return leads
}

func TestComputeFunnel(t *testing.T) {
	leads := leadsWithStatus(map[string]int{
		status.Fechou:      4,
		status.Agendado:    3,
		status.NaoApareceu: 2,
		status.Mentorado:   1,
	})

	m := Compute(leads)

	assert.Equal(t, 9, m.TotalLeads)
	assert.Equal(t, 1, m.Mentees)
	assert.Equal(t, 4, m.Closed)
	assert.Equal(t, 3, m.PendingService)
	assert.Equal(t, 0, m.ServicedNotClosed)
	assert.Equal(t, 2, m.LostOrInactive)
	assert.Equal(t, 4, m.Presentations)
	assert.Equal(t, 44.4, m.CloseRate)
	assert.Equal(t, 55.6, m.NonClosureRate)
	assert.Equal(t, 100.0, m.PresentationCloseRate)
	assert.Equal(t, 44.4, m.AttendanceRate)
	assert.Equal(t, 33.3, m.PendingServiceRate)
	assert.Equal(t, 22.3, m.NoShowRate)
	assert.Empty(t, Validate(m))
}

func TestComputeEmpty(t *testing.T) {
	m := Compute(nil)

	assert.Equal(t, entities.StandardizedMetrics{}, m)
	assert.Empty(t, Validate(m))
}

func TestComputeOnlyMentees(t *testing.T) {
	m := Compute(leadsWithStatus(map[string]int{status.Mentorado: 3}))

	assert.Equal(t, 0, m.TotalLeads)
	assert.Equal(t, 3, m.Mentees)
	assert.Zero(t, m.CloseRate)
	assert.Empty(t, Validate(m))
}

func TestComputeRevenue(t *testing.T) {
	leads := []entities.Lead{
		{Name: "a", Status: status.Fechou, FullSaleAmount: 1500, RecurringAmount: 99.9},
		{Name: "b", Status: status.Fechou},
		// venda registrada sem status de fechamento ainda conta como fechamento
		{Name: "c", Status: status.Agendado, RecurringAmount: 200.1},
		{Name: "d", Status: status.NaoFechou},
		{Name: "e", Status: status.Mentorado, FullSaleAmount: 5000},
	}

	m := Compute(leads)

	assert.Equal(t, 4, m.TotalLeads)
	assert.Equal(t, 3, m.Closings)
	assert.Equal(t, 1, m.FullSaleCount)
	assert.Equal(t, 2, m.RecurringSaleCount)
	assert.Equal(t, 1500.0, m.FullSaleRevenue)
	assert.Equal(t, 300.0, m.RecurringRevenue)
	assert.Equal(t, 1800.0, m.TotalRevenue)
	assert.Equal(t, 600.0, m.AverageTicket)
	assert.Equal(t, 50.0, m.CloseRate)
	assert.Equal(t, 66.7, m.PresentationCloseRate)
	assert.Empty(t, Validate(m))
}

func TestComputeIsIdempotent(t *testing.T) {
	leads := leadsWithStatus(map[string]int{
		status.Fechou:    2,
		status.NaoFechou: 5,
		status.Desmarcou: 1,
		status.Agendado:  3,
	})

	first := Compute(leads)
	second := Compute(leads)
	assert.Equal(t, first, second)
}

func TestComputeInvariantsHold(t *testing.T) {
	for closed := 0; closed < 7; closed++ {
		for pending := 0; pending < 7; pending++ {
			for lost := 0; lost < 5; lost++ {
				leads := leadsWithStatus(map[string]int{
					status.Fechou:      closed,
					status.Agendado:    pending,
					status.NaoApareceu: lost,
					status.NaoFechou:   (closed + lost) % 3,
				})
				m := Compute(leads)
				require.Empty(t, Validate(m), "closed=%d pending=%d lost=%d", closed, pending, lost)
				require.GreaterOrEqual(t, m.NoShowRate, 0.0)
			}
		}
	}
}

func TestComputeReportsUnknownStatus(t *testing.T) {
	var unknown []string
	e := NewEngine(status.NewClassifier(func(raw, _ string) {
		unknown = append(unknown, raw)
	}))

	m := e.Compute([]entities.Lead{{Name: "a", Status: "Em negociação"}})

	assert.Equal(t, 1, m.PendingService)
	assert.Equal(t, []string{"Em negociação"}, unknown)
}

func TestValidateDetectsBrokenIdentities(t *testing.T) {
	m := entities.StandardizedMetrics{
		TotalLeads:         10,
		Closed:             3,
		PendingService:     3,
		Presentations:      5,
		CloseRate:          30,
		NonClosureRate:     60,
		AttendanceRate:     30,
		PendingServiceRate: 30,
		NoShowRate:         30,
		Closings:           2,
		FullSaleRevenue:    100,
		TotalRevenue:       90,
	}

	var codes []string
	for _, issue := range Validate(m) {
		codes = append(codes, issue.Code)
	}
	assert.ElementsMatch(t, []string{
		"group_sum", "presentations", "close_rate_sum", "attendance_rate_sum", "closings", "revenue_sum",
	}, codes)
}

func TestHourOf(t *testing.T) {
	loc := time.UTC
	at := func(h, m int) *time.Time {
		ts := time.Date(2025, 3, 10, h, m, 0, 0, loc)
		return &ts
	}

	assert.Equal(t, 14, HourOf(entities.Lead{RawTime: "14:30", Date: at(9, 0)}))
	assert.Equal(t, 9, HourOf(entities.Lead{Date: at(9, 15)}))
	assert.Equal(t, 12, HourOf(entities.Lead{Date: at(0, 0)}))
	assert.Equal(t, 12, HourOf(entities.Lead{}))
}

func TestHourlyDistribution(t *testing.T) {
	leads := []entities.Lead{
		{Name: "a", RawTime: "08:10", Status: status.Fechou, FullSaleAmount: 1000},
		{Name: "b", RawTime: "8h45", Status: status.Agendado},
		{Name: "c", RawTime: "21:00", Status: status.NaoFechou},
		{Name: "d", Status: status.Agendado},
		{Name: "e", RawTime: "08:00", Status: status.Mentorado},
	}

	buckets := HourlyDistribution(leads)

	require.Len(t, buckets, 24)
	assert.Equal(t, entities.HourlyBucket{Hour: 8, Leads: 2, Closings: 1, Revenue: 1000}, buckets[8])
	assert.Equal(t, 1, buckets[21].Leads)
	assert.Equal(t, 1, buckets[12].Leads)

	total := 0
	for _, b := range buckets {
		total += b.Leads
	}
	assert.Equal(t, 4, total)
}

func TestDailyTrendZeroFills(t *testing.T) {
	loc := time.UTC
	day := func(d int) *time.Time {
		ts := time.Date(2025, 3, d, 10, 0, 0, 0, loc)
		return &ts
	}
	leads := []entities.Lead{
		{Name: "a", Date: day(1), Status: status.Fechou, FullSaleAmount: 500},
		{Name: "b", Date: day(1), Status: status.Agendado},
		{Name: "c", Date: day(3), Status: status.NaoFechou},
		{Name: "d", Status: status.Fechou},
	}

	points := DailyTrend(leads, time.Time{}, time.Time{}, loc)
	assert.Equal(t, []entities.DailyPoint{
		{Date: "2025-03-01", Leads: 2, Closings: 1, Revenue: 500},
		{Date: "2025-03-02"},
		{Date: "2025-03-03", Leads: 1},
	}, points)

	bounded := DailyTrend(leads, time.Date(2025, 2, 28, 0, 0, 0, 0, loc), time.Date(2025, 3, 1, 0, 0, 0, 0, loc), loc)
	assert.Equal(t, []entities.DailyPoint{
		{Date: "2025-02-28"},
		{Date: "2025-03-01", Leads: 2, Closings: 1, Revenue: 500},
	}, bounded)

	assert.Empty(t, DailyTrend(nil, time.Time{}, time.Time{}, loc))
}

func TestMonthlyRevenue(t *testing.T) {
	loc := time.UTC
	on := func(m time.Month, d int) *time.Time {
		ts := time.Date(2025, m, d, 10, 0, 0, 0, loc)
		return &ts
	}
	leads := []entities.Lead{
		{Name: "a", Date: on(3, 2), Status: status.Fechou, FullSaleAmount: 1000, RecurringAmount: 100},
		{Name: "b", Date: on(1, 15), Status: status.Agendado, RecurringAmount: 50},
		{Name: "c", Date: on(3, 20), Status: status.Fechou, FullSaleAmount: 500.5},
		{Name: "d", Date: on(2, 1), Status: status.NaoFechou},
		{Name: "e", Status: status.Fechou, FullSaleAmount: 999},
	}

	months := MonthlyRevenue(leads, loc)
	assert.Equal(t, []entities.MonthlyRevenue{
		{Month: "2025-01", Closings: 1, RecurringRevenue: 50, TotalRevenue: 50},
		{Month: "2025-03", Closings: 2, FullSaleRevenue: 1500.5, RecurringRevenue: 100, TotalRevenue: 1600.5},
	}, months)
}

func TestBreakdownByCloser(t *testing.T) {
	leads := []entities.Lead{
		{Name: "a", Closer: "Bruna", Status: status.Fechou, FullSaleAmount: 200},
		{Name: "b", Closer: "Carlos", Status: status.Fechou, FullSaleAmount: 900},
		{Name: "c", Closer: "Bruna", Status: status.NaoFechou},
		{Name: "d", Status: status.Agendado},
	}

	rows := Breakdown(leads, ByCloser)

	require.Len(t, rows, 3)
	assert.Equal(t, "Carlos", rows[0].Key)
	assert.Equal(t, "Bruna", rows[1].Key)
	assert.Equal(t, 2, rows[1].Metrics.TotalLeads)
	assert.Equal(t, 50.0, rows[1].Metrics.CloseRate)
	assert.Equal(t, UnassignedKey, rows[2].Key)
}

func TestParseDimension(t *testing.T) {
	d, ok := ParseDimension(" Origin ")
	assert.True(t, ok)
	assert.Equal(t, ByOrigin, d)

	_, ok = ParseDimension("product")
	assert.False(t, ok)
}
