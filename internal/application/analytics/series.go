package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/dates"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/utils"
	"github.com/shopspring/decimal"
)

// UnassignedKey agrupa leads sem closer ou origem no breakdown.
const UnassignedKey = "Não informado"

// HourOf retorna a hora do lead para a distribuição horária.
// Usa o texto de horário; sem ele, a hora da data quando não for meia-noite; senão DefaultHour.
func HourOf(lead entities.Lead) int {
	if strings.TrimSpace(lead.RawTime) != "" {
		return dates.ExtractHour(lead.RawTime)
	}
	if lead.Date != nil {
		if h, m, _ := lead.Date.Clock(); h != 0 || m != 0 {
			return h
		}
	}
	return dates.DefaultHour
}

// HourlyDistribution distribui os leads (sem mentorados) nas 24 horas do dia.
func HourlyDistribution(leads []entities.Lead) []entities.HourlyBucket {
	return defaultEngine.HourlyDistribution(leads)
}

func (e *Engine) HourlyDistribution(leads []entities.Lead) []entities.HourlyBucket {
	buckets := make([]entities.HourlyBucket, 24)
	revenue := make([]decimal.Decimal, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}

	for _, lead := range leads {
		g := e.classifier.Classify(lead.Status)
		if g == entities.GroupMentee {
			continue
		}
		h := HourOf(lead)
		buckets[h].Leads++
		if isClosing(g, lead) {
			buckets[h].Closings++
			revenue[h] = revenue[h].Add(leadRevenue(lead))
		}
	}

	for h := range buckets {
		buckets[h].Revenue = toFloat(revenue[h])
	}
	return buckets
}

// DailyTrend monta a série diária entre from e to, com zero nos dias sem leads.
// Leads sem data não entram. Com from/to zerados, usa o menor e o maior dia encontrados.
func DailyTrend(leads []entities.Lead, from, to time.Time, loc *time.Location) []entities.DailyPoint {
	return defaultEngine.DailyTrend(leads, from, to, loc)
}

func (e *Engine) DailyTrend(leads []entities.Lead, from, to time.Time, loc *time.Location) []entities.DailyPoint {
	if loc == nil {
		loc = utils.GetBrasilLocation()
	}

	type acc struct {
		leads, closings int
		revenue         decimal.Decimal
	}
	byDay := make(map[string]*acc)
	var first, last time.Time

	for _, lead := range leads {
		if lead.Date == nil {
			continue
		}
		g := e.classifier.Classify(lead.Status)
		if g == entities.GroupMentee {
			continue
		}
		d := lead.Date.In(loc)
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}

		key := d.Format("2006-01-02")
		a, ok := byDay[key]
		if !ok {
			a = &acc{}
			byDay[key] = a
		}
		a.leads++
		if isClosing(g, lead) {
			a.closings++
			a.revenue = a.revenue.Add(leadRevenue(lead))
		}
	}

	if from.IsZero() {
		from = first
	}
	if to.IsZero() {
		to = last
	}
	if !from.IsZero() {
		from = from.In(loc)
	}

	days := utils.GenerateDateRange(from, to)
	points := make([]entities.DailyPoint, 0, len(days))
	for _, day := range days {
		p := entities.DailyPoint{Date: day}
		if a, ok := byDay[day]; ok {
			p.Leads = a.leads
			p.Closings = a.closings
			p.Revenue = toFloat(a.revenue)
		}
		points = append(points, p)
	}
	return points
}

// MonthlyRevenue soma o faturamento por mês (YYYY-MM), em ordem cronológica.
func MonthlyRevenue(leads []entities.Lead, loc *time.Location) []entities.MonthlyRevenue {
	return defaultEngine.MonthlyRevenue(leads, loc)
}

func (e *Engine) MonthlyRevenue(leads []entities.Lead, loc *time.Location) []entities.MonthlyRevenue {
	if loc == nil {
		loc = utils.GetBrasilLocation()
	}

	type acc struct {
		closings  int
		full, rec decimal.Decimal
	}
	byMonth := make(map[string]*acc)

	for _, lead := range leads {
		if lead.Date == nil {
			continue
		}
		g := e.classifier.Classify(lead.Status)
		if g == entities.GroupMentee || !isClosing(g, lead) {
			continue
		}
		key := lead.Date.In(loc).Format("2006-01")
		a, ok := byMonth[key]
		if !ok {
			a = &acc{}
			byMonth[key] = a
		}
		a.closings++
		a.full = a.full.Add(decimal.NewFromFloat(lead.FullSaleAmount))
		a.rec = a.rec.Add(decimal.NewFromFloat(lead.RecurringAmount))
	}

	months := make([]string, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	sort.Strings(months)

	result := make([]entities.MonthlyRevenue, 0, len(months))
	for _, k := range months {
		a := byMonth[k]
		result = append(result, entities.MonthlyRevenue{
			Month:            k,
			Closings:         a.closings,
			FullSaleRevenue:  toFloat(a.full),
			RecurringRevenue: toFloat(a.rec),
			TotalRevenue:     toFloat(a.full.Add(a.rec)),
		})
	}
	return result
}

// Dimension escolhe a chave de agrupamento do breakdown.
type Dimension string

const (
	ByCloser Dimension = "closer"
	ByOrigin Dimension = "origin"
)

// ParseDimension aceita "closer" ou "origin".
func ParseDimension(s string) (Dimension, bool) {
	switch Dimension(strings.ToLower(strings.TrimSpace(s))) {
	case ByCloser:
		return ByCloser, true
	case ByOrigin:
		return ByOrigin, true
	}
	return "", false
}

func (d Dimension) key(lead entities.Lead) string {
	var v string
	if d == ByOrigin {
		v = lead.Origin
	} else {
		v = lead.Closer
	}
	if v = strings.TrimSpace(v); v == "" {
		return UnassignedKey
	}
	return v
}

// Breakdown calcula as métricas por closer ou origem, ordenadas por faturamento e depois pela chave.
func Breakdown(leads []entities.Lead, by Dimension) []entities.BreakdownRow {
	return defaultEngine.Breakdown(leads, by)
}

func (e *Engine) Breakdown(leads []entities.Lead, by Dimension) []entities.BreakdownRow {
	groups := make(map[string][]entities.Lead)
	for _, lead := range leads {
		k := by.key(lead)
		groups[k] = append(groups[k], lead)
	}

	rows := make([]entities.BreakdownRow, 0, len(groups))
	for k, group := range groups {
		rows = append(rows, entities.BreakdownRow{Key: k, Metrics: e.Compute(group)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Metrics.TotalRevenue != rows[j].Metrics.TotalRevenue {
			return rows[i].Metrics.TotalRevenue > rows[j].Metrics.TotalRevenue
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

func leadRevenue(lead entities.Lead) decimal.Decimal {
	return decimal.NewFromFloat(lead.FullSaleAmount).Add(decimal.NewFromFloat(lead.RecurringAmount))
}
