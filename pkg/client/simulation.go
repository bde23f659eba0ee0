package client

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
)

type simulatedConditions struct {
	temperature   float64
	humidity      float64
	precipitation float64
	wind          float64
	code          int
}

// Representative winter conditions; the north-west is wet and windy, the
// south dry.
var simulatedWeather = map[string]simulatedConditions{
	"bizerte":   {14, 82, 35, 38, 63},
	"kasserine": {9, 88, 28, 32, 65},
	"tunis":     {16, 68, 8, 22, 2},
	"jendouba":  {11, 80, 22, 28, 61},
	"zaghouan":  {12, 84, 25, 30, 63},
	"kairouan":  {15, 70, 12, 25, 61},
	"sfax":      {19, 52, 0, 18, 1},
	"sousse":    {18, 58, 2, 20, 2},
	"gabes":     {20, 48, 0, 15, 0},
	"tozeur":    {22, 35, 0, 12, 0},
	"medenine":  {21, 42, 0, 14, 1},
}

var defaultSimulatedWeather = simulatedConditions{17, 60, 5, 18, 2}

// SimulationProvider serves deterministic offline data. It never fails and is
// the last resort when every real provider is down.
type SimulationProvider struct {
	clock clockwork.Clock
}

func NewSimulationProvider(clock clockwork.Clock) *SimulationProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SimulationProvider{clock: clock}
}

func (p *SimulationProvider) Name() string {
	return SourceSimulation
}

func (p *SimulationProvider) CurrentObservation(_ context.Context, region regions.Region, locale i18n.Locale) (*models.Observation, error) {
	return p.Observation(region.ID, region.LocalName(locale), locale), nil
}

// Observation builds the simulated reading for regionID. Unknown ids get the
// default conditions.
func (p *SimulationProvider) Observation(regionID, regionName string, locale i18n.Locale) *models.Observation {
	c, ok := simulatedWeather[regionID]
	if !ok {
		c = defaultSimulatedWeather
	}
	visibility := 10.0
	if c.precipitation > 15 {
		visibility = 6
	}
	uv := 5.0
	if c.precipitation > 0 {
		uv = 2
	}
	if regionName == "" {
		regionName = regionID
	}
	return &models.Observation{
		RegionID:           regionID,
		RegionName:         regionName,
		Temperature:        models.Float(c.temperature),
		FeelsLike:          models.Float(c.temperature - 2),
		Humidity:           models.Float(c.humidity),
		Precipitation:      models.Float(c.precipitation),
		WindSpeed:          models.Float(c.wind),
		WindGusts:          models.Float(c.wind + 12),
		WindDirection:      i18n.WindDirection(locale, 315),
		Visibility:         models.Float(visibility),
		Pressure:           models.Float(1015),
		UVIndex:            models.Float(uv),
		WeatherCode:        models.Int(c.code),
		WeatherDescription: i18n.WeatherDescription(locale, c.code),
		WeatherIcon:        i18n.WeatherIcon(c.code),
		IsRealData:         false,
		Source:             SourceSimulation,
		Timestamp:          p.clock.Now().UTC(),
	}
}
