// Package alerts derives discrete hazard alerts from weather observations and
// aggregates them across regions.
//
// Detection is stateless: each pass rebuilds every alert from the latest
// observation, so there is no acknowledgement, expiry or deduplication.
package alerts

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/risk"
)

// Detector turns observations into alerts. It only reads its clock, so one
// Detector can be shared by concurrent callers.
type Detector struct {
	clock clockwork.Clock
}

// NewDetector returns a detector stamping alerts with clock. A nil clock means
// wall-clock time.
func NewDetector(clock clockwork.Clock) *Detector {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Detector{clock: clock}
}

var defaultDetector = NewDetector(nil)

// DetectAlerts runs the default wall-clock detector.
func DetectAlerts(obs *models.Observation, regionID, regionName string, locale i18n.Locale) []models.Alert {
	return defaultDetector.DetectAlerts(obs, regionID, regionName, locale)
}

// readings is an observation with the per-family default policy applied.
type readings struct {
	temperature    float64
	hasTemperature bool
	precipitation  float64
	wind           float64
	visibility     float64
	hasVisibility  bool
	weatherCode    int
	hasWeatherCode bool
	description    string
}

func normalize(obs *models.Observation) readings {
	var r readings
	if v, ok := present(obs.Temperature); ok {
		r.temperature, r.hasTemperature = v, true
	}
	r.precipitation, _ = present(obs.Precipitation)

	// a zero gust means the provider did not report one
	if g, ok := present(obs.WindGusts); ok && g != 0 {
		r.wind = g
	} else {
		r.wind, _ = present(obs.WindSpeed)
	}

	if v, ok := present(obs.Visibility); ok {
		r.visibility, r.hasVisibility = v, true
	}
	if obs.WeatherCode != nil {
		r.weatherCode, r.hasWeatherCode = *obs.WeatherCode, true
	}
	r.description = obs.WeatherDescription
	return r
}

// DetectAlerts evaluates the temperature, precipitation, wind and visibility
// ladders in that order, then the thunderstorm rule. Each ladder yields at
// most one alert. A nil observation yields no alerts.
func (d *Detector) DetectAlerts(obs *models.Observation, regionID, regionName string, locale i18n.Locale) []models.Alert {
	alerts := make([]models.Alert, 0, 2)
	if obs == nil {
		return alerts
	}
	r := normalize(obs)
	now := d.clock.Now().UTC()

	emit := func(l ladder, v float64) {
		if t, ok := l.evaluate(v); ok {
			m := formatMeasurement(v, l.unit)
			alerts = append(alerts, newAlert(t.Hazard, t.Severity, m, obs, regionID, regionName, locale, now))
		}
	}

	if r.hasTemperature {
		emit(temperatureLadder, r.temperature)
	}
	emit(precipitationLadder, r.precipitation)
	emit(windLadder, r.wind)
	if r.hasVisibility {
		emit(visibilityLadder, r.visibility)
	}

	if r.hasWeatherCode && risk.IsThunderstormCode(r.weatherCode) {
		m := r.description
		if m == "" {
			m = i18n.WeatherDescription(locale, r.weatherCode)
		}
		alerts = append(alerts, newAlert(models.HazardThunderstorm, thunderstormSeverity, m, obs, regionID, regionName, locale, now))
	}

	return alerts
}

func newAlert(hazard models.HazardType, severity models.Severity, measurement string,
	obs *models.Observation, regionID, regionName string, locale i18n.Locale, now time.Time) models.Alert {
	c := i18n.AlertCopy(locale, hazard)
	source := obs.Source
	if source == "" {
		source = "Simulation"
	}
	return models.Alert{
		ID:              alertID(hazard, regionID, now),
		HazardType:      hazard,
		Severity:        severity,
		RegionID:        regionID,
		RegionName:      regionName,
		Title:           c.Title,
		Description:     c.Description,
		Measurement:     measurement,
		Recommendations: i18n.Recommendations(locale, hazard),
		Timestamp:       now,
		IsRealTime:      obs.IsRealData,
		Source:          source,
	}
}

// The random suffix keeps ids unique when two passes land on the same
// millisecond.
func alertID(hazard models.HazardType, regionID string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d-%s", hazard, regionID, now.UnixMilli(), uuid.NewString()[:8])
}

func formatMeasurement(v float64, unit string) string {
	if v == 0 {
		v = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + unit
}

func present(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}
