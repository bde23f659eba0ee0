package models

import (
	"fmt"
	"time"
)

// Severity is the four-colour national vigilance scale.
type Severity string

const (
	SeverityVert   Severity = "vert"
	SeverityJaune  Severity = "jaune"
	SeverityOrange Severity = "orange"
	SeverityRouge  Severity = "rouge"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityRouge, SeverityOrange, SeverityJaune, SeverityVert}

// Rank orders severities for display: rouge=0, orange=1, jaune=2, vert=3.
// Unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityRouge:
		return 0
	case SeverityOrange:
		return 1
	case SeverityJaune:
		return 2
	case SeverityVert:
		return 3
	default:
		return 4
	}
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() <= other.Rank()
}

// Color is the map fill colour for the severity.
func (s Severity) Color() string {
	switch s {
	case SeverityRouge:
		return "#EF4444"
	case SeverityOrange:
		return "#F97316"
	case SeverityJaune:
		return "#F59E0B"
	case SeverityVert:
		return "#10B981"
	default:
		return "#6B7280"
	}
}

func (s Severity) Valid() bool {
	return s.Rank() < 4
}

// ParseSeverity accepts the French names used on the wire as well as their
// English equivalents.
func ParseSeverity(v string) (Severity, error) {
	switch v {
	case "vert", "green":
		return SeverityVert, nil
	case "jaune", "yellow":
		return SeverityJaune, nil
	case "orange":
		return SeverityOrange, nil
	case "rouge", "red":
		return SeverityRouge, nil
	}
	return "", fmt.Errorf("unknown severity %q", v)
}

// HazardType identifies one tier of a hazard family.
type HazardType string

const (
	HazardHeatwave     HazardType = "heatwave"
	HazardHot          HazardType = "hot"
	HazardCold         HazardType = "cold"
	HazardFreezing     HazardType = "freezing"
	HazardHeavyRain    HazardType = "heavy-rain"
	HazardModerateRain HazardType = "moderate-rain"
	HazardLightRain    HazardType = "light-rain"
	HazardStorm        HazardType = "storm"
	HazardStrongWind   HazardType = "strong-wind"
	HazardModerateWind HazardType = "moderate-wind"
	HazardDenseFog     HazardType = "dense-fog"
	HazardFog          HazardType = "fog"
	HazardMist         HazardType = "mist"
	HazardThunderstorm HazardType = "thunderstorm"
)

// HazardFamily groups mutually exclusive hazard tiers over one quantity.
type HazardFamily string

const (
	FamilyTemperature   HazardFamily = "temperature"
	FamilyPrecipitation HazardFamily = "precipitation"
	FamilyWind          HazardFamily = "wind"
	FamilyVisibility    HazardFamily = "visibility"
	FamilyThunderstorm  HazardFamily = "thunderstorm"
)

var hazardFamilies = map[HazardType]HazardFamily{
	HazardHeatwave:     FamilyTemperature,
	HazardHot:          FamilyTemperature,
	HazardCold:         FamilyTemperature,
	HazardFreezing:     FamilyTemperature,
	HazardHeavyRain:    FamilyPrecipitation,
	HazardModerateRain: FamilyPrecipitation,
	HazardLightRain:    FamilyPrecipitation,
	HazardStorm:        FamilyWind,
	HazardStrongWind:   FamilyWind,
	HazardModerateWind: FamilyWind,
	HazardDenseFog:     FamilyVisibility,
	HazardFog:          FamilyVisibility,
	HazardMist:         FamilyVisibility,
	HazardThunderstorm: FamilyThunderstorm,
}

// Family returns the family a hazard belongs to, or "" for unknown hazards.
func (h HazardType) Family() HazardFamily {
	return hazardFamilies[h]
}

func (h HazardType) Valid() bool {
	_, ok := hazardFamilies[h]
	return ok
}

// Alert is a point-in-time hazard detection for one region. Alerts are
// rebuilt from scratch on every detection pass and never updated.
type Alert struct {
	ID              string     `json:"id"`
	HazardType      HazardType `json:"hazard_type"`
	Severity        Severity   `json:"severity"`
	RegionID        string     `json:"region_id"`
	RegionName      string     `json:"region_name"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Measurement     string     `json:"measurement"`
	Recommendations []string   `json:"recommendations"`
	Timestamp       time.Time  `json:"timestamp"`
	IsRealTime      bool       `json:"is_real_time"`
	Source          string     `json:"source"`
}

// AlertStatistics summarizes a list of alerts.
type AlertStatistics struct {
	Total  int                `json:"total"`
	Rouge  int                `json:"rouge"`
	Orange int                `json:"orange"`
	Jaune  int                `json:"jaune"`
	Vert   int                `json:"vert"`
	ByType map[HazardType]int `json:"by_type"`
}
