// Package analytics calcula as métricas padronizadas do funil a partir de uma coleção de leads.
// Tudo aqui é puro: a mesma entrada produz sempre a mesma saída e nada é memorizado entre chamadas.
package analytics

import (
	"math"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/shopspring/decimal"
)

// Engine agrega leads usando o classificador canônico.
type Engine struct {
	classifier *status.Classifier
}

// NewEngine cria o motor. classifier nil usa o classificador padrão.
func NewEngine(classifier *status.Classifier) *Engine {
	if classifier == nil {
		classifier = status.NewClassifier(nil)
	}
	return &Engine{classifier: classifier}
}

var defaultEngine = NewEngine(nil)

// Compute usa o motor padrão.
func Compute(leads []entities.Lead) entities.StandardizedMetrics {
	return defaultEngine.Compute(leads)
}

// Compute calcula contagens por grupo, taxas e faturamento.
// Mentorados ficam fora do total. Um lead conta como fechamento se o status for "Fechou"
// ou se tiver qualquer valor de venda.
func (e *Engine) Compute(leads []entities.Lead) entities.StandardizedMetrics {
	var (
		m         entities.StandardizedMetrics
		full, rec decimal.Decimal
	)

	for _, lead := range leads {
		g := e.classifier.Classify(lead.Status)
		if g == entities.GroupMentee {
			m.Mentees++
			continue
		}
		m.TotalLeads++

		switch g {
		case entities.GroupClosed:
			m.Closed++
		case entities.GroupServicedNotClosed:
			m.ServicedNotClosed++
		case entities.GroupLostOrInactive:
			m.LostOrInactive++
		default:
			m.PendingService++
		}

		if !isClosing(g, lead) {
			continue
		}
		m.Closings++
		if lead.FullSaleAmount > 0 {
			m.FullSaleCount++
			full = full.Add(decimal.NewFromFloat(lead.FullSaleAmount))
		}
		if lead.RecurringAmount > 0 {
			m.RecurringSaleCount++
			rec = rec.Add(decimal.NewFromFloat(lead.RecurringAmount))
		}
	}

	m.Presentations = m.Closed + m.ServicedNotClosed

	if m.TotalLeads > 0 {
		m.CloseRate = percent(m.Closed, m.TotalLeads)
		m.OverallYieldRate = m.CloseRate
		m.NonClosureRate = nonNegative(round1(100 - m.CloseRate))
		m.AttendanceRate = percent(m.Presentations, m.TotalLeads)
		m.PendingServiceRate = percent(m.PendingService, m.TotalLeads)
		// complemento para que presença + pendentes + no-show feche 100 após o arredondamento
		m.NoShowRate = nonNegative(round1(100 - m.AttendanceRate - m.PendingServiceRate))
	}
	if m.Presentations > 0 {
		m.PresentationCloseRate = percent(m.Closed, m.Presentations)
	}

	total := full.Add(rec)
	m.FullSaleRevenue = toFloat(full)
	m.RecurringRevenue = toFloat(rec)
	m.TotalRevenue = toFloat(total)
	if m.Closings > 0 {
		m.AverageTicket = toFloat(total.Div(decimal.NewFromInt(int64(m.Closings))))
	}
	return m
}

func isClosing(g entities.StatusGroup, lead entities.Lead) bool {
	return g == entities.GroupClosed || lead.HasRevenue()
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// nonNegative também normaliza -0, que o JSON serializaria como "-0".
func nonNegative(f float64) float64 {
	if f <= 0 {
		return 0
	}
	return f
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
