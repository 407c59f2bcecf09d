package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/gofiber/fiber/v2"
)

// parseLeadQuery lê from, to (YYYY-MM-DD), status, closer, origin (separados por vírgula) e temporal.
func parseLeadQuery(c *fiber.Ctx, loc *time.Location) (usecases.LeadQuery, error) {
	var q usecases.LeadQuery

	from, err := parseDay(c.Query("from", ""), loc)
	if err != nil {
		return q, fmt.Errorf("invalid from: %w", err)
	}
	to, err := parseDay(c.Query("to", ""), loc)
	if err != nil {
		return q, fmt.Errorf("invalid to: %w", err)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return q, fmt.Errorf("from must not be after to")
	}
	q.Range = entities.DateRange{From: from, To: to}

	q.Filter = entities.StatusFilter{
		Status: splitList(c.Query("status", "")),
		Closer: splitList(c.Query("closer", "")),
		Origin: splitList(c.Query("origin", "")),
	}

	if raw := c.Query("temporal", ""); raw != "" {
		q.Temporal, err = strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("invalid temporal: %w", err)
		}
	}
	return q, nil
}

// parseDay aceita YYYY-MM-DD ou RFC 3339. Vazio devolve zero.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func appliedFilters(q usecases.LeadQuery) fiber.Map {
	filters := fiber.Map{"temporal": q.Temporal}
	if !q.Range.From.IsZero() {
		filters["from"] = q.Range.From.Format("2006-01-02")
	}
	if !q.Range.To.IsZero() {
		filters["to"] = q.Range.To.Format("2006-01-02")
	}
	if len(q.Filter.Status) > 0 {
		filters["status"] = q.Filter.Status
	}
	if len(q.Filter.Closer) > 0 {
		filters["closer"] = q.Filter.Closer
	}
	if len(q.Filter.Origin) > 0 {
		filters["origin"] = q.Filter.Origin
	}
	return filters
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func internalError(c *fiber.Ctx, msg string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   msg + ": " + err.Error(),
	})
}
