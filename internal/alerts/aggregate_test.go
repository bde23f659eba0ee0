package alerts

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
)

func TestDetectAllAlerts_Empty(t *testing.T) {
	d, _ := newTestDetector()
	alerts := d.DetectAllAlerts(map[string]*models.Observation{}, regions.Default(), i18n.French)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)

	stats := GetAlertStats(alerts)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Rouge+stats.Orange+stats.Jaune+stats.Vert)
	assert.NotNil(t, stats.ByType)
	assert.Empty(t, stats.ByType)
}

func TestDetectAllAlerts_SortedBySeverityWithStableTies(t *testing.T) {
	d, _ := newTestDetector()

	light := calm()
	light.Precipitation = models.Float(6)
	light.WindSpeed = models.Float(45)

	hot := calm()
	hot.Temperature = models.Float(37)

	severe := calm()
	severe.Precipitation = models.Float(40)
	severe.WeatherCode = models.Int(95)
	severe.WeatherDescription = "Orage"

	observations := map[string]*models.Observation{
		"tunis":   light,
		"sfax":    hot,
		"bizerte": severe,
		"kebili":  calm(),
	}
	alerts := d.DetectAllAlerts(observations, regions.Default(), i18n.French)

	require.Len(t, alerts, 5)
	for i := 1; i < len(alerts); i++ {
		assert.LessOrEqual(t, alerts[i-1].Severity.Rank(), alerts[i].Severity.Rank())
	}

	type key struct {
		region string
		hazard models.HazardType
	}
	got := make([]key, len(alerts))
	for i, a := range alerts {
		got[i] = key{a.RegionID, a.HazardType}
	}
	// directory order is tunis, bizerte, sfax
	assert.Equal(t, []key{
		{"bizerte", models.HazardHeavyRain},
		{"bizerte", models.HazardThunderstorm},
		{"sfax", models.HazardHot},
		{"tunis", models.HazardLightRain},
		{"tunis", models.HazardModerateWind},
	}, got)
}

func TestDetectAllAlerts_ResolvesNames(t *testing.T) {
	d, _ := newTestDetector()
	hot := calm()
	hot.Temperature = models.Float(41)

	alerts := d.DetectAllAlerts(map[string]*models.Observation{
		"kef":      hot,
		"zz-north": hot,
		"aa-south": hot,
	}, regions.Default(), i18n.English)

	require.Len(t, alerts, 3)
	assert.Equal(t, "Kef", alerts[0].RegionName)
	// unknown ids keep their id as name and follow known ones lexically
	assert.Equal(t, "aa-south", alerts[1].RegionName)
	assert.Equal(t, "zz-north", alerts[2].RegionName)
}

func TestDetectAllAlerts_NilDirectoryAndObservation(t *testing.T) {
	d, _ := newTestDetector()
	hot := calm()
	hot.Temperature = models.Float(41)

	alerts := d.DetectAllAlerts(map[string]*models.Observation{
		"b": hot,
		"a": nil,
	}, nil, i18n.French)
	require.Len(t, alerts, 1)
	assert.Equal(t, "b", alerts[0].RegionName)
}

func TestDetectAllAlerts_Deterministic(t *testing.T) {
	d, _ := newTestDetector()
	observations := map[string]*models.Observation{}
	for i, id := range regions.Default().IDs() {
		obs := calm()
		obs.Precipitation = models.Float(float64(i * 2))
		obs.WindSpeed = models.Float(float64(i * 5))
		observations[id] = obs
	}

	first := hazardsAndRegions(d.DetectAllAlerts(observations, regions.Default(), i18n.French))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, hazardsAndRegions(d.DetectAllAlerts(observations, regions.Default(), i18n.French)))
	}
}

func hazardsAndRegions(alerts []models.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.RegionID + "/" + string(a.HazardType)
	}
	return out
}

func TestGetAlertStats(t *testing.T) {
	alerts := []models.Alert{
		{HazardType: models.HazardHeavyRain, Severity: models.SeverityRouge},
		{HazardType: models.HazardHeavyRain, Severity: models.SeverityRouge},
		{HazardType: models.HazardHot, Severity: models.SeverityOrange},
		{HazardType: models.HazardMist, Severity: models.SeverityJaune},
		{HazardType: models.HazardLightRain, Severity: models.SeverityVert},
	}
	stats := GetAlertStats(alerts)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Rouge)
	assert.Equal(t, 1, stats.Orange)
	assert.Equal(t, 1, stats.Jaune)
	assert.Equal(t, 1, stats.Vert)
	assert.Equal(t, map[models.HazardType]int{
		models.HazardHeavyRain: 2,
		models.HazardHot:       1,
		models.HazardMist:      1,
		models.HazardLightRain: 1,
	}, stats.ByType)
}

func TestHighestSeverity(t *testing.T) {
	assert.Equal(t, models.SeverityVert, HighestSeverity(nil))
	assert.Equal(t, models.SeverityOrange, HighestSeverity([]models.Alert{
		{Severity: models.SeverityJaune}, {Severity: models.SeverityOrange}, {Severity: "bogus"},
	}))
}

func TestFilterApply(t *testing.T) {
	alerts := []models.Alert{
		{RegionID: "tunis", HazardType: models.HazardStorm, Severity: models.SeverityRouge},
		{RegionID: "sfax", HazardType: models.HazardHot, Severity: models.SeverityOrange},
		{RegionID: "tunis", HazardType: models.HazardMist, Severity: models.SeverityJaune},
	}

	assert.Len(t, Filter{}.Apply(alerts), 3)
	assert.Len(t, Filter{MinSeverity: models.SeverityOrange}.Apply(alerts), 2)
	assert.Len(t, Filter{RegionID: "tunis"}.Apply(alerts), 2)

	got := Filter{Hazard: models.HazardMist, RegionID: "tunis"}.Apply(alerts)
	require.Len(t, got, 1)
	assert.Equal(t, models.SeverityJaune, got[0].Severity)
}

func TestDetectAllAlerts_ConcurrentCallsShareInputs(t *testing.T) {
	d, _ := newTestDetector()
	dir := regions.Default()

	severe := calm()
	severe.Precipitation = models.Float(40)
	severe.WindSpeed = models.Float(95)
	hot := calm()
	hot.Temperature = models.Float(41)
	observations := map[string]*models.Observation{
		"bizerte": severe,
		"tozeur":  hot,
		"tunis":   calm(),
	}
	want := hazards(d.DetectAllAlerts(observations, dir, i18n.French))
	require.NotEmpty(t, want)

	const workers = 16
	results := make([][]models.HazardType, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			locale := i18n.Supported[i%len(i18n.Supported)]
			results[i] = hazards(d.DetectAllAlerts(observations, dir, locale))
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "worker %d", i)
	}
	assert.Equal(t, 40.0, *severe.Precipitation)
}
