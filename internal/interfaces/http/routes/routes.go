package routes

import (
	"net/http"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/PavaniTiago/leads-intelligence-api/internal/interfaces/http/handlers"
	"github.com/PavaniTiago/leads-intelligence-api/internal/interfaces/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"
)

// Deps reúne o que as rotas precisam.
type Deps struct {
	LeadUseCase    usecases.LeadUseCase
	Snapshots      repositories.LeadSnapshotRepository
	Classifier     *status.Classifier
	MetricsHandler http.Handler
	Location       *time.Location
	JWTSecret      string
	Log            *zap.Logger
}

func SetupRoutes(app *fiber.App, deps Deps) {
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// ETag para o dashboard revalidar sem baixar de novo
	app.Use(etag.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	leadHandler := handlers.NewLeadHandler(deps.LeadUseCase, deps.Classifier, deps.Location, deps.Log)
	dashboardHandler := handlers.NewDashboardHandler(deps.LeadUseCase, deps.Location)

	groups := middleware.SetupRouteGroups(app, middleware.JWTAuth(deps.JWTSecret))

	groups.Leads.Get("/", leadHandler.GetLeads)
	groups.Leads.Get("/export", leadHandler.ExportLeads)
	groups.Leads.Post("/refresh", groups.Auth, leadHandler.Refresh)
	groups.Leads.Post("/ingest", groups.Auth, leadHandler.Ingest)

	if deps.Snapshots != nil {
		performanceHandler := handlers.NewPerformanceHandler(deps.Snapshots)
		groups.Leads.Get("/snapshots/stats", performanceHandler.GetSnapshotStats)
	}

	RegisterDashboardRoutes(groups.Dashboard, dashboardHandler)
}

func RegisterDashboardRoutes(router fiber.Router, h *handlers.DashboardHandler) {
	router.Get("/metrics", h.GetMetrics)
	router.Get("/hourly", h.GetHourly)
	router.Get("/daily", h.GetDaily)
	router.Get("/monthly-revenue", h.GetMonthlyRevenue)
	router.Get("/breakdown", h.GetBreakdown)
}
