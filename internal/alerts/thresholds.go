package alerts

import "github.com/bobby-s-dev/weather-vigilance/internal/models"

// threshold is one tier of a hazard ladder. Tiers fire when the reading is at
// or above Limit, or at or below it when Below is set.
type threshold struct {
	Hazard   models.HazardType
	Severity models.Severity
	Limit    float64
	Below    bool
}

func (t threshold) matches(v float64) bool {
	if t.Below {
		return v <= t.Limit
	}
	return v >= t.Limit
}

// ladder is a family of mutually exclusive tiers, most severe first within
// each direction. The first matching tier wins.
type ladder struct {
	family models.HazardFamily
	unit   string
	tiers  []threshold
}

func (l ladder) evaluate(v float64) (threshold, bool) {
	for _, t := range l.tiers {
		if t.matches(v) {
			return t, true
		}
	}
	return threshold{}, false
}

// Heat is checked before cold.
var temperatureLadder = ladder{
	family: models.FamilyTemperature,
	unit:   "°C",
	tiers: []threshold{
		{models.HazardHeatwave, models.SeverityRouge, 40, false},
		{models.HazardHot, models.SeverityOrange, 35, false},
		{models.HazardFreezing, models.SeverityRouge, 0, true},
		{models.HazardCold, models.SeverityOrange, 2, true},
	},
}

// millimetres over the trailing window
var precipitationLadder = ladder{
	family: models.FamilyPrecipitation,
	unit:   "mm",
	tiers: []threshold{
		{models.HazardHeavyRain, models.SeverityRouge, 30, false},
		{models.HazardModerateRain, models.SeverityOrange, 15, false},
		{models.HazardLightRain, models.SeverityJaune, 5, false},
	},
}

// km/h, gusts when reported
var windLadder = ladder{
	family: models.FamilyWind,
	unit:   "km/h",
	tiers: []threshold{
		{models.HazardStorm, models.SeverityRouge, 90, false},
		{models.HazardStrongWind, models.SeverityOrange, 60, false},
		{models.HazardModerateWind, models.SeverityJaune, 40, false},
	},
}

// kilometres, lowest visibility first
var visibilityLadder = ladder{
	family: models.FamilyVisibility,
	unit:   "km",
	tiers: []threshold{
		{models.HazardDenseFog, models.SeverityRouge, 0.2, true},
		{models.HazardFog, models.SeverityOrange, 1, true},
		{models.HazardMist, models.SeverityJaune, 3, true},
	},
}

const thunderstormSeverity = models.SeverityRouge
