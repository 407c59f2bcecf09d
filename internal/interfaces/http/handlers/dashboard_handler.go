package handlers

import (
	"fmt"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/analytics"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	leadUseCase usecases.LeadUseCase
	loc         *time.Location
}

func NewDashboardHandler(leadUseCase usecases.LeadUseCase, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{leadUseCase: leadUseCase, loc: loc}
}

// GetMetrics retorna as métricas padronizadas e o relatório de validação
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	q, err := parseLeadQuery(c, h.loc)
	if err != nil {
		return badRequest(c, err)
	}

	result, err := h.leadUseCase.Metrics(c.UserContext(), q)
	if err != nil {
		return internalError(c, "Erro ao calcular métricas", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"data":            result.Metrics,
		"issues":          result.Issues,
		"applied_filters": appliedFilters(q),
	})
}

// GetHourly retorna a distribuição dos leads por hora do dia
func (h *DashboardHandler) GetHourly(c *fiber.Ctx) error {
	q, err := parseLeadQuery(c, h.loc)
	if err != nil {
		return badRequest(c, err)
	}

	buckets, err := h.leadUseCase.Hourly(c.UserContext(), q)
	if err != nil {
		return internalError(c, "Erro ao buscar dados por hora", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"data":            buckets,
		"applied_filters": appliedFilters(q),
	})
}

// GetDaily retorna a série diária, com zero nos dias sem leads
func (h *DashboardHandler) GetDaily(c *fiber.Ctx) error {
	q, err := parseLeadQuery(c, h.loc)
	if err != nil {
		return badRequest(c, err)
	}
	q.Temporal = true

	points, err := h.leadUseCase.Daily(c.UserContext(), q)
	if err != nil {
		return internalError(c, "Erro ao buscar série diária", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"data":            points,
		"applied_filters": appliedFilters(q),
	})
}

// GetMonthlyRevenue retorna o faturamento por mês
func (h *DashboardHandler) GetMonthlyRevenue(c *fiber.Ctx) error {
	q, err := parseLeadQuery(c, h.loc)
	if err != nil {
		return badRequest(c, err)
	}
	q.Temporal = true

	months, err := h.leadUseCase.MonthlyRevenue(c.UserContext(), q)
	if err != nil {
		return internalError(c, "Erro ao buscar faturamento mensal", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"data":            months,
		"applied_filters": appliedFilters(q),
	})
}

// GetBreakdown retorna as métricas por closer ou origem (?by=closer|origin)
func (h *DashboardHandler) GetBreakdown(c *fiber.Ctx) error {
	q, err := parseLeadQuery(c, h.loc)
	if err != nil {
		return badRequest(c, err)
	}
	by, ok := analytics.ParseDimension(c.Query("by", string(analytics.ByCloser)))
	if !ok {
		return badRequest(c, fmt.Errorf("invalid by: must be closer or origin"))
	}

	rows, err := h.leadUseCase.Breakdown(c.UserContext(), q, by)
	if err != nil {
		return internalError(c, "Erro ao buscar breakdown", err)
	}

	filters := appliedFilters(q)
	filters["by"] = string(by)
	return c.JSON(fiber.Map{
		"success":         true,
		"data":            rows,
		"applied_filters": filters,
	})
}
