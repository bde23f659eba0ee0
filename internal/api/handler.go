package api

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/alerts"
	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/report"
	"github.com/bobby-s-dev/weather-vigilance/internal/scheduler"
	"github.com/bobby-s-dev/weather-vigilance/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Trigger is the part of the scheduler the API drives.
type Trigger interface {
	ForceRun()
	Status() scheduler.Status
}

type HandlerOptions struct {
	Weather   *services.WeatherService
	Vigilance *services.VigilanceService
	// Scheduler is optional; without it POST /refresh runs synchronously.
	Scheduler     Trigger
	Gatherer      prometheus.Gatherer
	DefaultLocale i18n.Locale
	Clock         clockwork.Clock
}

type Handler struct {
	weather       *services.WeatherService
	vigilance     *services.VigilanceService
	scheduler     Trigger
	gatherer      prometheus.Gatherer
	defaultLocale i18n.Locale
	clock         clockwork.Clock
	startTime     time.Time
	logger        *zap.Logger
}

func NewHandler(opts HandlerOptions, logger *zap.Logger) *Handler {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	locale := opts.DefaultLocale
	if locale == "" {
		locale = i18n.Reference
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		weather:       opts.Weather,
		vigilance:     opts.Vigilance,
		scheduler:     opts.Scheduler,
		gatherer:      gatherer,
		defaultLocale: locale,
		clock:         clock,
		startTime:     clock.Now(),
		logger:        logger,
	}
}

// locale resolves the response language: ?lang= first, then Accept-Language,
// then the configured default.
func (h *Handler) locale(c *fiber.Ctx) i18n.Locale {
	if lang := c.Query("lang"); lang != "" {
		if l, ok := i18n.ParseLocale(lang); ok {
			return l
		}
	}
	return i18n.MatchAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage), h.defaultLocale)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   msg,
		"success": false,
	})
}

// serviceError maps service errors onto HTTP statuses.
func (h *Handler) serviceError(c *fiber.Ctx, err error, msg string) error {
	switch {
	case errors.Is(err, services.ErrUnknownRegion):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fail(c, fiber.StatusServiceUnavailable, "request cancelled before completion")
	}
	h.logger.Error(msg, zap.String("path", c.Path()), zap.Error(err))
	return fail(c, fiber.StatusInternalServerError, msg)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":    "healthy",
		"timestamp": h.clock.Now(),
		"uptime":    h.clock.Since(h.startTime).String(),
		"weather":   h.weather.Stats(),
	}
	if h.scheduler != nil {
		body["scheduler"] = h.scheduler.Status()
	}
	return c.JSON(body)
}

// GetRegions handles GET /api/v1/regions
func (h *Handler) GetRegions(c *fiber.Ctx) error {
	locale := h.locale(c)
	all := h.weather.Regions().All()
	out := make([]fiber.Map, 0, len(all))
	for _, r := range all {
		out = append(out, fiber.Map{
			"id":        r.ID,
			"name":      r.LocalName(locale),
			"latitude":  r.Latitude,
			"longitude": r.Longitude,
		})
	}
	return c.JSON(fiber.Map{
		"regions": out,
		"count":   len(out),
		"locale":  locale,
	})
}

// GetCurrentWeather handles GET /api/v1/weather/current
func (h *Handler) GetCurrentWeather(c *fiber.Ctx) error {
	region := c.Query("region")
	if region == "" {
		return fail(c, fiber.StatusBadRequest, "region parameter is required")
	}

	h.logger.Debug("Fetching current weather", zap.String("region", region))

	obs, err := h.weather.GetWeather(c.UserContext(), region, h.locale(c))
	if err != nil {
		return h.serviceError(c, err, "failed to fetch weather data")
	}
	return c.JSON(obs)
}

// GetAllWeather handles GET /api/v1/weather/all
func (h *Handler) GetAllWeather(c *fiber.Ctx) error {
	locale := h.locale(c)
	observations := h.weather.GetAllWeather(c.UserContext(), locale)
	return c.JSON(fiber.Map{
		"observations": observations,
		"count":        len(observations),
		"source":       h.weather.CurrentSource(),
		"locale":       locale,
	})
}

// GetRisk handles GET /api/v1/risk. Without a region it returns every
// region's status.
func (h *Handler) GetRisk(c *fiber.Ctx) error {
	locale := h.locale(c)
	region := c.Query("region")
	if region != "" {
		status, err := h.vigilance.RegionRisk(c.UserContext(), region, locale)
		if err != nil {
			return h.serviceError(c, err, "failed to compute region risk")
		}
		return c.JSON(status)
	}

	s, err := h.vigilance.Situation(c.UserContext(), locale)
	if err != nil {
		return h.serviceError(c, err, "failed to compute risk")
	}
	return c.JSON(fiber.Map{
		"regions": s.Regions,
		"count":   len(s.Regions),
		"locale":  locale,
	})
}

func parseFilter(c *fiber.Ctx) (alerts.Filter, error) {
	f := alerts.Filter{RegionID: c.Query("region")}
	if v := c.Query("severity"); v != "" {
		sev, err := models.ParseSeverity(v)
		if err != nil {
			return f, err
		}
		f.MinSeverity = sev
	}
	if v := c.Query("type"); v != "" {
		hazard := models.HazardType(v)
		if !hazard.Valid() {
			return f, errors.New("unknown alert type " + v)
		}
		f.Hazard = hazard
	}
	return f, nil
}

// GetAlerts handles GET /api/v1/alerts
func (h *Handler) GetAlerts(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	locale := h.locale(c)

	list, stats, err := h.vigilance.Alerts(c.UserContext(), locale, filter)
	if err != nil {
		return h.serviceError(c, err, "failed to detect alerts")
	}
	return c.JSON(fiber.Map{
		"alerts": list,
		"count":  len(list),
		"stats":  stats,
		"locale": locale,
	})
}

// GetAlertStats handles GET /api/v1/alerts/stats
func (h *Handler) GetAlertStats(c *fiber.Ctx) error {
	_, stats, err := h.vigilance.Alerts(c.UserContext(), h.locale(c), alerts.Filter{})
	if err != nil {
		return h.serviceError(c, err, "failed to detect alerts")
	}
	return c.JSON(stats)
}

// GetSituation handles GET /api/v1/situation
func (h *Handler) GetSituation(c *fiber.Ctx) error {
	s, err := h.vigilance.Situation(c.UserContext(), h.locale(c))
	if err != nil {
		return h.serviceError(c, err, "failed to build situation")
	}
	return c.JSON(s)
}

// GetSituationReport handles GET /api/v1/reports/situation.xlsx
func (h *Handler) GetSituationReport(c *fiber.Ctx) error {
	locale := h.locale(c)
	s, err := h.vigilance.Situation(c.UserContext(), locale)
	if err != nil {
		return h.serviceError(c, err, "failed to build situation")
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, s, locale); err != nil {
		return h.serviceError(c, err, "failed to build report")
	}

	c.Attachment("situation-" + s.GeneratedAt.Format("20060102-1504") + ".xlsx")
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}

// ClearCache handles DELETE /api/v1/cache
func (h *Handler) ClearCache(c *fiber.Ctx) error {
	cleared := h.weather.ClearCache()
	h.logger.Info("Observation cache cleared", zap.Int("entries", cleared))
	return c.JSON(fiber.Map{
		"success": true,
		"cleared": cleared,
	})
}

// Refresh handles POST /api/v1/refresh
func (h *Handler) Refresh(c *fiber.Ctx) error {
	if h.scheduler != nil {
		h.scheduler.ForceRun()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success": true,
			"status":  "refresh started",
		})
	}

	if err := h.vigilance.Refresh(c.UserContext(), h.locale(c)); err != nil {
		return h.serviceError(c, err, "refresh failed")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"status":  "refreshed",
	})
}

// ErrorHandler renders errors that escape the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return fail(c, code, err.Error())
}
