package services

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/alerts"
	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/metrics"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
	"github.com/bobby-s-dev/weather-vigilance/internal/risk"
)

// VigilanceService turns observations into risk indices, alerts and the
// national situation.
type VigilanceService struct {
	weather  *WeatherService
	detector *alerts.Detector
	metrics  *metrics.Metrics
	clock    clockwork.Clock
	logger   *zap.Logger
}

func NewVigilanceService(weather *WeatherService, detector *alerts.Detector, m *metrics.Metrics, clock clockwork.Clock, logger *zap.Logger) *VigilanceService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if detector == nil {
		detector = alerts.NewDetector(clock)
	}
	return &VigilanceService{
		weather:  weather,
		detector: detector,
		metrics:  m,
		clock:    clock,
		logger:   logger,
	}
}

// Situation builds a national snapshot from one observation per region.
func (v *VigilanceService) Situation(ctx context.Context, locale i18n.Locale) (*models.Situation, error) {
	start := v.clock.Now()
	observations := v.weather.GetAllWeather(ctx, locale)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.buildSituation(start, observations, locale), nil
}

// Refresh refetches every region and rebuilds the situation so the cache and
// the regional gauges are current.
func (v *VigilanceService) Refresh(ctx context.Context, locale i18n.Locale) error {
	start := v.clock.Now()
	observations := v.weather.RefreshAll(ctx, locale)
	if err := ctx.Err(); err != nil {
		return err
	}
	v.buildSituation(start, observations, locale)
	return nil
}

func (v *VigilanceService) buildSituation(start time.Time, observations map[string]*models.Observation, locale i18n.Locale) *models.Situation {
	dir := v.weather.Regions()
	all := v.detector.DetectAllAlerts(observations, dir, locale)
	perRegion := make(map[string]int, dir.Len())
	for _, a := range all {
		perRegion[a.RegionID]++
	}

	s := &models.Situation{
		GeneratedAt:   start.UTC(),
		Locale:        string(locale),
		Source:        v.weather.CurrentSource(),
		NationalLevel: models.SeverityVert,
		Regions:       make([]models.RegionStatus, 0, dir.Len()),
		Alerts:        all,
		Stats:         alerts.GetAlertStats(all),
	}

	for _, region := range dir.All() {
		obs := observations[region.ID]
		status := regionStatus(region, obs, locale, perRegion[region.ID])
		s.Regions = append(s.Regions, status)

		level := status.Risk.OverallAlertLevel
		v.metrics.SetRegionLevel(region.ID, level)
		if level.Rank() < s.NationalLevel.Rank() {
			s.NationalLevel = level
		}
		switch level {
		case models.SeverityRouge:
			s.CriticalRegions++
		case models.SeverityOrange:
			s.HighRiskRegions++
		}
		if obs != nil && obs.IsRealData {
			s.RealDataRegions++
		}
	}

	v.metrics.ObserveAlerts(all)
	elapsed := v.clock.Since(start)
	v.metrics.ObserveSituation(elapsed)

	v.logger.Info("Situation built",
		zap.String("locale", string(locale)),
		zap.String("national_level", string(s.NationalLevel)),
		zap.Int("alerts", len(all)),
		zap.Int("critical_regions", s.CriticalRegions),
		zap.Duration("duration", elapsed))
	return s
}

// RegionRisk returns the status of a single region.
func (v *VigilanceService) RegionRisk(ctx context.Context, regionID string, locale i18n.Locale) (*models.RegionStatus, error) {
	obs, err := v.weather.GetWeather(ctx, regionID, locale)
	if err != nil {
		return nil, err
	}
	region, _ := v.weather.Regions().Get(regionID)
	detected := v.detector.DetectAlerts(obs, region.ID, region.LocalName(locale), locale)
	status := regionStatus(region, obs, locale, len(detected))
	return &status, nil
}

// Alerts returns the current alerts matching filter, most severe first, plus
// statistics over the unfiltered list.
func (v *VigilanceService) Alerts(ctx context.Context, locale i18n.Locale, filter alerts.Filter) ([]models.Alert, models.AlertStatistics, error) {
	if filter.RegionID != "" {
		if _, ok := v.weather.Regions().Get(filter.RegionID); !ok {
			return nil, models.AlertStatistics{}, ErrUnknownRegion
		}
	}
	observations := v.weather.GetAllWeather(ctx, locale)
	if err := ctx.Err(); err != nil {
		return nil, models.AlertStatistics{}, err
	}
	all := v.detector.DetectAllAlerts(observations, v.weather.Regions(), locale)
	return filter.Apply(all), alerts.GetAlertStats(all), nil
}

func regionStatus(region regions.Region, obs *models.Observation, locale i18n.Locale, alertCount int) models.RegionStatus {
	indices := risk.ComputeRiskIndices(obs)
	return models.RegionStatus{
		RegionID:    region.ID,
		RegionName:  region.LocalName(locale),
		Latitude:    region.Latitude,
		Longitude:   region.Longitude,
		Observation: obs,
		Risk:        indices,
		Color:       indices.OverallAlertLevel.Color(),
		LevelLabel:  i18n.LevelLabel(locale, indices.OverallAlertLevel),
		AlertCount:  alertCount,
	}
}
