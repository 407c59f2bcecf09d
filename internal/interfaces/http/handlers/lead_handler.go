package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/ingestion"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LeadHandler struct {
	leadUseCase usecases.LeadUseCase
	classifier  *status.Classifier
	loc         *time.Location
	log         *zap.Logger
}

// NewLeadHandler usa o classifier do processo; sem ele, status desconhecidos são avisados no log do handler.
func NewLeadHandler(leadUseCase usecases.LeadUseCase, classifier *status.Classifier, loc *time.Location, log *zap.Logger) *LeadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if classifier == nil {
		classifier = status.NewClassifier(func(raw, suggestion string) {
			log.Warn("unknown status", zap.String("status", raw), zap.String("suggestion", suggestion))
		})
	}
	return &LeadHandler{leadUseCase: leadUseCase, classifier: classifier, loc: loc, log: log}
}

// GetLeads retorna os leads filtrados
func (h *LeadHandler) GetLeads(c *fiber.Ctx) error {
	q, err := parseLeadQuery(c, h.loc)
	if err != nil {
		return badRequest(c, err)
	}

	leads, err := h.leadUseCase.Leads(c.UserContext(), q)
	if err != nil {
		return internalError(c, "Erro ao buscar leads", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"data":            leads,
		"meta":            fiber.Map{"total": len(leads)},
		"applied_filters": appliedFilters(q),
	})
}

// ExportLeads devolve os leads filtrados em XLSX
func (h *LeadHandler) ExportLeads(c *fiber.Ctx) error {
	q, err := parseLeadQuery(c, h.loc)
	if err != nil {
		return badRequest(c, err)
	}

	leads, err := h.leadUseCase.Leads(c.UserContext(), q)
	if err != nil {
		return internalError(c, "Erro ao buscar leads", err)
	}

	buf, err := WriteLeadsXLSX(leads, h.loc, h.classifier)
	if err != nil {
		return internalError(c, "Erro ao gerar planilha", err)
	}

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().In(h.loc).Format("20060102-1504"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// Refresh força nova busca no webhook
func (h *LeadHandler) Refresh(c *fiber.Ctx) error {
	res, err := h.leadUseCase.Refresh(c.UserContext())
	if err != nil {
		h.log.Error("refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Erro ao atualizar leads: " + err.Error(),
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

// Ingest recebe o payload bruto no corpo da requisição
func (h *LeadHandler) Ingest(c *fiber.Ctx) error {
	res, err := h.leadUseCase.IngestPayload(c.UserContext(), usecases.SourceUpload, c.Body())
	if errors.Is(err, ingestion.ErrNotArray) || errors.Is(err, ingestion.ErrEmptyBatch) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	if err != nil {
		return internalError(c, "Erro ao processar leads", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}
