package client

import (
	"context"
	"math"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
)

// Provider fetches current conditions for one region.
type Provider interface {
	Name() string
	CurrentObservation(ctx context.Context, region regions.Region, locale i18n.Locale) (*models.Observation, error)
}

// Source labels stamped on observations.
const (
	SourceOpenMeteo   = "Open-Meteo"
	SourceWeatherAPI  = "WeatherAPI"
	SourceOpenWeather = "OpenWeatherMap"
	SourceSimulation  = "Simulation"
)

// providerLang maps a locale onto the lang parameter upstream APIs accept.
func providerLang(locale i18n.Locale) string {
	switch locale {
	case i18n.French, i18n.Arabic, i18n.English:
		return string(locale)
	}
	return string(i18n.Reference)
}

func rounded(v float64) *float64 {
	return models.Float(math.Round(v))
}

// orZero dereferences p, treating nil as zero.
func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
