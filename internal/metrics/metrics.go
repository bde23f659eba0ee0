// Package metrics holds the Prometheus instruments for the vigilance service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bobby-s-dev/weather-vigilance/internal/models"
)

const namespace = "vigilance"

// Metrics groups every counter, gauge and histogram the service exports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec // labels: provider, outcome={success,error}
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss}
	AlertsDetected   *prometheus.CounterVec // labels: severity, hazard
	RegionLevel      *prometheus.GaugeVec   // labels: region; 0 vert .. 3 rouge
	SituationBuild   prometheus.Histogram
	SchedulerRuns    *prometheus.CounterVec // labels: outcome={success,error,skipped}
}

// New creates the instruments and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Weather provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observation_cache_lookups_total",
			Help:      "Observation cache lookups by result.",
		}, []string{"result"}),
		AlertsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_detected_total",
			Help:      "Alerts produced by situation builds, by severity and hazard.",
		}, []string{"severity", "hazard"}),
		RegionLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "region_vigilance_level",
			Help:      "Latest overall vigilance level per region (0 vert, 1 jaune, 2 orange, 3 rouge).",
		}, []string{"region"}),
		SituationBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "situation_build_duration_seconds",
			Help:      "Duration of a full situation build across all regions.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SchedulerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_runs_total",
			Help:      "Scheduled cache warm-ups by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ProviderRequests,
			m.CacheLookups,
			m.AlertsDetected,
			m.RegionLevel,
			m.SituationBuild,
			m.SchedulerRuns,
		)
	}
	return m
}

func (m *Metrics) ObserveProvider(provider string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveAlerts(alerts []models.Alert) {
	if m == nil {
		return
	}
	for _, a := range alerts {
		m.AlertsDetected.WithLabelValues(string(a.Severity), string(a.HazardType)).Inc()
	}
}

// SetRegionLevel records a region's level as 3 for rouge down to 0 for vert.
func (m *Metrics) SetRegionLevel(regionID string, level models.Severity) {
	if m == nil || !level.Valid() {
		return
	}
	m.RegionLevel.WithLabelValues(regionID).Set(float64(models.SeverityVert.Rank() - level.Rank()))
}

func (m *Metrics) ObserveSituation(d time.Duration) {
	if m == nil {
		return
	}
	m.SituationBuild.Observe(d.Seconds())
}

func (m *Metrics) ObserveSchedulerRun(outcome string) {
	if m == nil {
		return
	}
	m.SchedulerRuns.WithLabelValues(outcome).Inc()
}
