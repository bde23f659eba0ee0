package models

import "time"

// RiskIndices are the continuous 0-100 indices used for map colouring plus
// the discrete vigilance level derived from them.
type RiskIndices struct {
	FloodRisk         int      `json:"flood_risk"`
	StormRisk         int      `json:"storm_risk"`
	HeatwaveRisk      int      `json:"heatwave_risk"`
	AgriculturalRisk  int      `json:"agricultural_risk"`
	OverallAlertLevel Severity `json:"overall_alert_level"`
}

// RegionStatus is everything the dashboard shows for one region.
type RegionStatus struct {
	RegionID    string       `json:"region_id"`
	RegionName  string       `json:"region_name"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Observation *Observation `json:"observation"`
	Risk        RiskIndices  `json:"risk"`
	Color       string       `json:"color"`
	LevelLabel  string       `json:"level_label"`
	AlertCount  int          `json:"alert_count"`
}

// Situation is a national snapshot built from one set of observations.
type Situation struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	Locale          string          `json:"locale"`
	Source          string          `json:"source"`
	NationalLevel   Severity        `json:"national_level"`
	CriticalRegions int             `json:"critical_regions"`
	HighRiskRegions int             `json:"high_risk_regions"`
	RealDataRegions int             `json:"real_data_regions"`
	Regions         []RegionStatus  `json:"regions"`
	Alerts          []Alert         `json:"alerts"`
	Stats           AlertStatistics `json:"stats"`
}
