package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// SetupMiddlewares aplica CORS, recuperação de panic e o log de performance.
func SetupMiddlewares(app *fiber.App, corsOrigins string, log *zap.Logger) {
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: corsOrigins != "*",
		MaxAge:           300, // 5 minutes
	}))

	app.Use(PerformanceLogger(log))
}

// RouteGroups define os grupos de rotas da API
type RouteGroups struct {
	Leads     fiber.Router
	Dashboard fiber.Router
	// Auth é aplicado rota a rota; como middleware de grupo valeria para todo o prefixo /leads
	Auth fiber.Handler
}

// SetupRouteGroups configura os grupos de rotas
func SetupRouteGroups(app *fiber.App, authMiddleware fiber.Handler) RouteGroups {
	return RouteGroups{
		Leads:     app.Group("/leads"),
		Dashboard: app.Group("/dashboard"),
		Auth:      authMiddleware,
	}
}
