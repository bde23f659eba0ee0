package alerts

import (
	"sort"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
)

// RegionDirectory resolves region display names and gives the canonical
// region order.
type RegionDirectory interface {
	RegionName(id string, locale i18n.Locale) (string, bool)
	IDs() []string
}

// DetectAllAlerts runs the default wall-clock detector over every region.
func DetectAllAlerts(observations map[string]*models.Observation, dir RegionDirectory, locale i18n.Locale) []models.Alert {
	return defaultDetector.DetectAllAlerts(observations, dir, locale)
}

// DetectAllAlerts detects alerts for every region in observations and returns
// them sorted most severe first. Regions are visited in directory order, then
// any ids unknown to the directory in lexical order; the sort is stable, so
// equal severities keep that order and the per-region family order.
func (d *Detector) DetectAllAlerts(observations map[string]*models.Observation, dir RegionDirectory, locale i18n.Locale) []models.Alert {
	all := make([]models.Alert, 0, len(observations))
	for _, id := range regionOrder(observations, dir) {
		name := id
		if dir != nil {
			if n, ok := dir.RegionName(id, locale); ok && n != "" {
				name = n
			}
		}
		all = append(all, d.DetectAlerts(observations[id], id, name, locale)...)
	}
	SortBySeverity(all)
	return all
}

// SortBySeverity stable-sorts alerts rouge, orange, jaune, vert.
func SortBySeverity(alerts []models.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
}

func regionOrder(observations map[string]*models.Observation, dir RegionDirectory) []string {
	ids := make([]string, 0, len(observations))
	seen := make(map[string]bool, len(observations))
	if dir != nil {
		for _, id := range dir.IDs() {
			if _, ok := observations[id]; ok && !seen[id] {
				ids = append(ids, id)
				seen[id] = true
			}
		}
	}
	var rest []string
	for id := range observations {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

// GetAlertStats counts alerts by severity and by hazard type.
func GetAlertStats(alerts []models.Alert) models.AlertStatistics {
	stats := models.AlertStatistics{
		Total:  len(alerts),
		ByType: make(map[models.HazardType]int),
	}
	for _, a := range alerts {
		switch a.Severity {
		case models.SeverityRouge:
			stats.Rouge++
		case models.SeverityOrange:
			stats.Orange++
		case models.SeverityJaune:
			stats.Jaune++
		case models.SeverityVert:
			stats.Vert++
		}
		stats.ByType[a.HazardType]++
	}
	return stats
}

// HighestSeverity returns the worst severity in alerts, vert when empty.
func HighestSeverity(alerts []models.Alert) models.Severity {
	worst := models.SeverityVert
	for _, a := range alerts {
		if a.Severity.Valid() && a.Severity.Rank() < worst.Rank() {
			worst = a.Severity
		}
	}
	return worst
}

// Filter narrows an alert list for API queries. Zero fields match everything.
type Filter struct {
	MinSeverity models.Severity
	Hazard      models.HazardType
	RegionID    string
}

// Apply returns the matching alerts in their original order.
func (f Filter) Apply(alerts []models.Alert) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if f.MinSeverity != "" && !a.Severity.AtLeast(f.MinSeverity) {
			continue
		}
		if f.Hazard != "" && a.HazardType != f.Hazard {
			continue
		}
		if f.RegionID != "" && a.RegionID != f.RegionID {
			continue
		}
		out = append(out, a)
	}
	return out
}
