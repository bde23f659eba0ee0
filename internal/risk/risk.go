// Package risk turns one observation into the 0-100 risk indices that colour
// the map and the vigilance level that drives the regional banner.
package risk

import (
	"math"

	"github.com/bobby-s-dev/weather-vigilance/internal/models"
)

// WMO codes 95, 96 and 99 all report thunderstorm activity.
var thunderstormCodes = map[int]bool{95: true, 96: true, 99: true}

// IsThunderstormCode reports whether a WMO weather code is a thunderstorm.
func IsThunderstormCode(code int) bool {
	return thunderstormCodes[code]
}

// Level breakpoints, applied to the max of the flood, storm and heatwave
// indices.
const (
	rougeThreshold  = 75
	orangeThreshold = 50
	jauneThreshold  = 30
)

const heatwaveBaseTemp = 38.0

type inputs struct {
	temperature   float64
	humidity      float64
	precipitation float64
	windSpeed     float64
	weatherCode   int
}

// every missing reading scores as zero
func normalize(obs *models.Observation) inputs {
	var in inputs
	if obs == nil {
		return in
	}
	in.temperature = valueOr(obs.Temperature, 0)
	in.humidity = valueOr(obs.Humidity, 0)
	in.precipitation = valueOr(obs.Precipitation, 0)
	in.windSpeed = valueOr(obs.WindSpeed, 0)
	if obs.WeatherCode != nil {
		in.weatherCode = *obs.WeatherCode
	}
	return in
}

// ComputeRiskIndices scores a single observation. It never fails: a nil or
// partially empty observation scores as if the missing readings were zero.
func ComputeRiskIndices(obs *models.Observation) models.RiskIndices {
	in := normalize(obs)

	flood := score(in.precipitation*3 + humidityBonus(in.humidity))
	storm := score(windComponent(in.windSpeed) + stormCodeBonus(in.weatherCode))
	heatwave := score(math.Max(0, (in.temperature-heatwaveBaseTemp)*15))
	agricultural := score(0.4*float64(flood) + 0.3*float64(storm) + 0.3*float64(heatwave))

	return models.RiskIndices{
		FloodRisk:         flood,
		StormRisk:         storm,
		HeatwaveRisk:      heatwave,
		AgriculturalRisk:  agricultural,
		OverallAlertLevel: LevelFor(max(flood, storm, heatwave)),
	}
}

// LevelFor maps the worst base index to a vigilance level. It is monotonic:
// a higher input never yields a lower level.
func LevelFor(maxRisk int) models.Severity {
	switch {
	case maxRisk >= rougeThreshold:
		return models.SeverityRouge
	case maxRisk >= orangeThreshold:
		return models.SeverityOrange
	case maxRisk >= jauneThreshold:
		return models.SeverityJaune
	default:
		return models.SeverityVert
	}
}

func humidityBonus(humidity float64) float64 {
	switch {
	case humidity > 85:
		return 25
	case humidity > 70:
		return 10
	default:
		return 0
	}
}

func windComponent(speed float64) float64 {
	switch {
	case speed > 50:
		return 60
	case speed > 30:
		return 35
	case speed > 20:
		return 15
	default:
		return 0
	}
}

// The bonus adds to the wind component rather than replacing it, so strong
// wind during a thunderstorm saturates the index.
func stormCodeBonus(code int) float64 {
	if IsThunderstormCode(code) {
		return 40
	}
	return 0
}

// score rounds half up and clamps to [0,100].
func score(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Floor(v + 0.5)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

func valueOr(p *float64, def float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return def
	}
	return *p
}
