package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *Handler, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,DELETE",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		TimeFormat: time.RFC3339,
	}))

	api := app.Group("/api/v1")

	api.Get("/health", handler.GetHealth)
	api.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(handler.gatherer, promhttp.HandlerOpts{})))
	api.Get("/regions", handler.GetRegions)

	weather := api.Group("/weather")
	weather.Get("/current", handler.GetCurrentWeather)
	weather.Get("/all", handler.GetAllWeather)

	api.Get("/risk", handler.GetRisk)
	api.Get("/situation", handler.GetSituation)
	api.Get("/reports/situation.xlsx", handler.GetSituationReport)

	api.Get("/alerts", handler.GetAlerts)
	api.Get("/alerts/stats", handler.GetAlertStats)

	api.Delete("/cache", handler.ClearCache)
	api.Post("/refresh", handler.Refresh)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		log.Debug("Unknown endpoint", zap.String("path", c.Path()))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Endpoint not found",
			"path":    c.Path(),
			"success": false,
		})
	})
}
