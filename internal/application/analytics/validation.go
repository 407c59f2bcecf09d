package analytics

import (
	"fmt"
	"math"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
)

// rateTolerance absorve o arredondamento para uma casa decimal.
const rateTolerance = 0.1

// Issue é uma identidade das métricas que não fechou.
type Issue struct {
	Code     string  `json:"code"`
	Message  string  `json:"message"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
}

// Validate confere as identidades das métricas. Lista vazia significa consistente.
func Validate(m entities.StandardizedMetrics) []Issue {
	var issues []Issue

	groups := m.Closed + m.PendingService + m.ServicedNotClosed + m.LostOrInactive
	if groups != m.TotalLeads {
		issues = append(issues, Issue{
			Code:     "group_sum",
			Message:  "sum of status groups differs from total leads",
			Expected: float64(m.TotalLeads),
			Actual:   float64(groups),
		})
	}

	if m.Presentations != m.Closed+m.ServicedNotClosed {
		issues = append(issues, Issue{
			Code:     "presentations",
			Message:  "presentations differ from closed + serviced not closed",
			Expected: float64(m.Closed + m.ServicedNotClosed),
			Actual:   float64(m.Presentations),
		})
	}

	if m.Presentations > 0 {
		if sum := m.CloseRate + m.NonClosureRate; math.Abs(sum-100) > rateTolerance {
			issues = append(issues, Issue{
				Code:     "close_rate_sum",
				Message:  "close rate + non-closure rate differs from 100",
				Expected: 100,
				Actual:   sum,
			})
		}
	}

	if m.TotalLeads > 0 {
		if sum := m.AttendanceRate + m.PendingServiceRate + m.NoShowRate; math.Abs(sum-100) > rateTolerance {
			issues = append(issues, Issue{
				Code:     "attendance_rate_sum",
				Message:  "attendance + pending service + no-show rates differ from 100",
				Expected: 100,
				Actual:   sum,
			})
		}
	}

	if m.Closings < m.Closed {
		issues = append(issues, Issue{
			Code:     "closings",
			Message:  fmt.Sprintf("closings (%d) lower than closed leads (%d)", m.Closings, m.Closed),
			Expected: float64(m.Closed),
			Actual:   float64(m.Closings),
		})
	}

	if diff := m.TotalRevenue - (m.FullSaleRevenue + m.RecurringRevenue); math.Abs(diff) > 0.01 {
		issues = append(issues, Issue{
			Code:     "revenue_sum",
			Message:  "total revenue differs from full sale + recurring",
			Expected: m.FullSaleRevenue + m.RecurringRevenue,
			Actual:   m.TotalRevenue,
		})
	}

	return issues
}
