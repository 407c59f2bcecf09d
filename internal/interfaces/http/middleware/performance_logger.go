package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// monitoredRoutes são os prefixos cujas respostas têm o tempo registrado
var monitoredRoutes = []string{
	"/leads",
	"/dashboard",
}

// PerformanceLogger mede o tempo de resposta das rotas de leads e dashboard
func PerformanceLogger(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		path := c.Path()

		shouldMonitor := false
		for _, route := range monitoredRoutes {
			if strings.HasPrefix(path, route) {
				shouldMonitor = true
				break
			}
		}
		if !shouldMonitor {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("query", string(c.Request().URI().QueryString())),
		)
		return err
	}
}
