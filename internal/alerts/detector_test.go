package alerts

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
)

var testNow = time.Date(2026, 1, 14, 9, 30, 0, 0, time.UTC)

func newTestDetector() (*Detector, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(testNow)
	return NewDetector(clock), clock
}

func calm() *models.Observation {
	return &models.Observation{
		Temperature:   models.Float(18),
		Humidity:      models.Float(60),
		Precipitation: models.Float(0),
		WindSpeed:     models.Float(10),
		Visibility:    models.Float(10),
		WeatherCode:   models.Int(0),
		IsRealData:    true,
		Source:        "Open-Meteo",
	}
}

func hazards(alerts []models.Alert) []models.HazardType {
	out := make([]models.HazardType, len(alerts))
	for i, a := range alerts {
		out[i] = a.HazardType
	}
	return out
}

func TestDetectAlerts_Scenarios(t *testing.T) {
	d, _ := newTestDetector()

	t.Run("heatwave", func(t *testing.T) {
		obs := calm()
		obs.Temperature = models.Float(42)
		alerts := d.DetectAlerts(obs, "tozeur", "Tozeur", i18n.French)

		require.Len(t, alerts, 1)
		assert.Equal(t, models.HazardHeatwave, alerts[0].HazardType)
		assert.Equal(t, models.SeverityRouge, alerts[0].Severity)
		assert.Equal(t, "42 °C", alerts[0].Measurement)
	})

	t.Run("heavy rain", func(t *testing.T) {
		obs := calm()
		obs.Precipitation = models.Float(35)
		obs.WindSpeed = models.Float(20)
		obs.WeatherCode = models.Int(65)
		alerts := d.DetectAlerts(obs, "bizerte", "Bizerte", i18n.French)

		require.Len(t, alerts, 1)
		assert.Equal(t, models.HazardHeavyRain, alerts[0].HazardType)
		assert.Equal(t, models.SeverityRouge, alerts[0].Severity)
		assert.Equal(t, "35 mm", alerts[0].Measurement)
	})

	t.Run("storm uses gusts", func(t *testing.T) {
		obs := calm()
		obs.WindSpeed = models.Float(20)
		obs.WindGusts = models.Float(95)
		alerts := d.DetectAlerts(obs, "nabeul", "Nabeul", i18n.French)

		require.Len(t, alerts, 1)
		assert.Equal(t, models.HazardStorm, alerts[0].HazardType)
		assert.Equal(t, models.SeverityRouge, alerts[0].Severity)
		assert.Equal(t, "95 km/h", alerts[0].Measurement)
	})

	t.Run("thunderstorm only", func(t *testing.T) {
		obs := calm()
		obs.WeatherCode = models.Int(96)
		obs.WeatherDescription = "Orage avec grêle légère"
		alerts := d.DetectAlerts(obs, "sfax", "Sfax", i18n.French)

		require.Len(t, alerts, 1)
		assert.Equal(t, models.HazardThunderstorm, alerts[0].HazardType)
		assert.Equal(t, models.SeverityRouge, alerts[0].Severity)
		assert.Equal(t, "Orage avec grêle légère", alerts[0].Measurement)
	})

	t.Run("missing gusts and visibility", func(t *testing.T) {
		obs := &models.Observation{
			Temperature:   models.Float(18),
			Precipitation: models.Float(0),
			WindSpeed:     models.Float(45),
			WeatherCode:   models.Int(0),
		}
		alerts := d.DetectAlerts(obs, "kef", "Le Kef", i18n.French)

		require.Len(t, alerts, 1)
		assert.Equal(t, models.HazardModerateWind, alerts[0].HazardType)
		assert.Equal(t, models.SeverityJaune, alerts[0].Severity)
		assert.Equal(t, "45 km/h", alerts[0].Measurement)
	})
}

func TestDetectAlerts_TemperatureLadder(t *testing.T) {
	d, _ := newTestDetector()
	tests := []struct {
		temp     float64
		hazard   models.HazardType
		severity models.Severity
	}{
		{40, models.HazardHeatwave, models.SeverityRouge},
		{39.9, models.HazardHot, models.SeverityOrange},
		{35, models.HazardHot, models.SeverityOrange},
		{34.9, "", ""},
		{2.1, "", ""},
		{2, models.HazardCold, models.SeverityOrange},
		{0.5, models.HazardCold, models.SeverityOrange},
		{0, models.HazardFreezing, models.SeverityRouge},
		{-8, models.HazardFreezing, models.SeverityRouge},
	}
	for _, tt := range tests {
		obs := calm()
		obs.Temperature = models.Float(tt.temp)
		alerts := d.DetectAlerts(obs, "kasserine", "Kasserine", i18n.French)
		if tt.hazard == "" {
			assert.Empty(t, alerts, "temp %v", tt.temp)
			continue
		}
		require.Len(t, alerts, 1, "temp %v", tt.temp)
		assert.Equal(t, tt.hazard, alerts[0].HazardType, "temp %v", tt.temp)
		assert.Equal(t, tt.severity, alerts[0].Severity, "temp %v", tt.temp)
	}
}

func TestDetectAlerts_NegativeZeroMeasurement(t *testing.T) {
	d, _ := newTestDetector()
	obs := calm()
	obs.Temperature = models.Float(math.Round(-0.3))

	alerts := d.DetectAlerts(obs, "kasserine", "Kasserine", i18n.French)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.HazardFreezing, alerts[0].HazardType)
	assert.Equal(t, "0 °C", alerts[0].Measurement)
}

func TestDetectAlerts_PrecipitationWindVisibilityLadders(t *testing.T) {
	d, _ := newTestDetector()

	precip := map[float64]models.HazardType{
		4.9: "", 5: models.HazardLightRain, 14.9: models.HazardLightRain,
		15: models.HazardModerateRain, 30: models.HazardHeavyRain,
	}
	for v, want := range precip {
		obs := calm()
		obs.Precipitation = models.Float(v)
		assertSingleOrNone(t, d.DetectAlerts(obs, "x", "x", i18n.French), want, v)
	}

	wind := map[float64]models.HazardType{
		39: "", 40: models.HazardModerateWind, 60: models.HazardStrongWind,
		89.9: models.HazardStrongWind, 90: models.HazardStorm,
	}
	for v, want := range wind {
		obs := calm()
		obs.WindSpeed = models.Float(v)
		assertSingleOrNone(t, d.DetectAlerts(obs, "x", "x", i18n.French), want, v)
	}

	vis := map[float64]models.HazardType{
		3.1: "", 3: models.HazardMist, 1.5: models.HazardMist, 1: models.HazardFog,
		0.2: models.HazardDenseFog, 0: models.HazardDenseFog,
	}
	for v, want := range vis {
		obs := calm()
		obs.Visibility = models.Float(v)
		assertSingleOrNone(t, d.DetectAlerts(obs, "x", "x", i18n.French), want, v)
	}
}

func assertSingleOrNone(t *testing.T, alerts []models.Alert, want models.HazardType, v float64) {
	t.Helper()
	if want == "" {
		assert.Empty(t, alerts, "value %v", v)
		return
	}
	if assert.Len(t, alerts, 1, "value %v", v) {
		assert.Equal(t, want, alerts[0].HazardType, "value %v", v)
	}
}

func TestDetectAlerts_FamilyOrderAndExclusivity(t *testing.T) {
	d, _ := newTestDetector()
	obs := &models.Observation{
		Temperature:        models.Float(45),
		Precipitation:      models.Float(50),
		WindSpeed:          models.Float(120),
		WindGusts:          models.Float(140),
		Visibility:         models.Float(0.1),
		WeatherCode:        models.Int(99),
		WeatherDescription: "Severe thunderstorm",
	}
	alerts := d.DetectAlerts(obs, "gabes", "Gabès", i18n.English)

	assert.Equal(t, []models.HazardType{
		models.HazardHeatwave,
		models.HazardHeavyRain,
		models.HazardStorm,
		models.HazardDenseFog,
		models.HazardThunderstorm,
	}, hazards(alerts))

	families := map[models.HazardFamily]int{}
	for _, a := range alerts {
		families[a.HazardType.Family()]++
	}
	for f, n := range families {
		assert.Equal(t, 1, n, "family %s", f)
	}
}

func TestDetectAlerts_AtMostOnePerFamily(t *testing.T) {
	d, _ := newTestDetector()
	temps := []float64{-20, 0, 1, 2, 3, 20, 35, 37, 40, 50}
	rains := []float64{0, 5, 15, 30, 100}
	winds := []float64{0, 40, 60, 90, 200}
	visibilities := []float64{0, 0.2, 1, 3, 10}
	for _, temp := range temps {
		for _, rain := range rains {
			for _, wind := range winds {
				for _, vis := range visibilities {
					obs := &models.Observation{
						Temperature:   models.Float(temp),
						Precipitation: models.Float(rain),
						WindSpeed:     models.Float(wind),
						Visibility:    models.Float(vis),
						WeatherCode:   models.Int(95),
					}
					counts := map[models.HazardFamily]int{}
					for _, a := range d.DetectAlerts(obs, "x", "x", i18n.French) {
						counts[a.HazardType.Family()]++
					}
					for f, n := range counts {
						require.LessOrEqual(t, n, 1, "family %s at %v/%v/%v/%v", f, temp, rain, wind, vis)
					}
					require.Equal(t, 1, counts[models.FamilyThunderstorm])
				}
			}
		}
	}
}

func TestDetectAlerts_Defaults(t *testing.T) {
	d, _ := newTestDetector()

	t.Run("nil observation", func(t *testing.T) {
		alerts := d.DetectAlerts(nil, "tunis", "Tunis", i18n.French)
		assert.NotNil(t, alerts)
		assert.Empty(t, alerts)
	})

	t.Run("empty observation", func(t *testing.T) {
		assert.Empty(t, d.DetectAlerts(&models.Observation{}, "tunis", "Tunis", i18n.French))
	})

	t.Run("zero gust falls back to sustained speed", func(t *testing.T) {
		obs := calm()
		obs.WindSpeed = models.Float(62)
		obs.WindGusts = models.Float(0)
		alerts := d.DetectAlerts(obs, "x", "x", i18n.French)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.HazardStrongWind, alerts[0].HazardType)
		assert.Equal(t, "62 km/h", alerts[0].Measurement)
	})

	t.Run("gusts below sustained speed still win", func(t *testing.T) {
		obs := calm()
		obs.WindSpeed = models.Float(65)
		obs.WindGusts = models.Float(30)
		assert.Empty(t, d.DetectAlerts(obs, "x", "x", i18n.French))
	})

	t.Run("thunderstorm without description uses code text", func(t *testing.T) {
		obs := calm()
		obs.WeatherCode = models.Int(99)
		alerts := d.DetectAlerts(obs, "x", "x", i18n.English)
		require.Len(t, alerts, 1)
		assert.Equal(t, "Severe thunderstorm", alerts[0].Measurement)
	})

	t.Run("missing source", func(t *testing.T) {
		obs := calm()
		obs.Source = ""
		obs.IsRealData = false
		obs.Temperature = models.Float(36)
		alerts := d.DetectAlerts(obs, "x", "x", i18n.French)
		require.Len(t, alerts, 1)
		assert.Equal(t, "Simulation", alerts[0].Source)
		assert.False(t, alerts[0].IsRealTime)
	})
}

func TestDetectAlerts_AlertFields(t *testing.T) {
	d, _ := newTestDetector()
	obs := calm()
	obs.Visibility = models.Float(0.2)
	alerts := d.DetectAlerts(obs, "beja", "Beja", i18n.English)
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, "beja", a.RegionID)
	assert.Equal(t, "Beja", a.RegionName)
	assert.Equal(t, "Dense Fog", a.Title)
	assert.Equal(t, "Near-zero visibility", a.Description)
	assert.Equal(t, "0.2 km", a.Measurement)
	assert.Equal(t, []string{"Reduce speed", "Use fog lights", "Increase safety distances"}, a.Recommendations)
	assert.Equal(t, testNow, a.Timestamp)
	assert.True(t, a.IsRealTime)
	assert.Equal(t, "Open-Meteo", a.Source)
	assert.True(t, strings.HasPrefix(a.ID, "dense-fog-beja-1768383000000-"), a.ID)
}

func TestDetectAlerts_LocaleFallbacks(t *testing.T) {
	d, _ := newTestDetector()
	obs := calm()
	obs.Temperature = models.Float(36)

	alerts := d.DetectAlerts(obs, "x", "x", i18n.Locale("de"))
	require.Len(t, alerts, 1)
	assert.Equal(t, "Forte Chaleur", alerts[0].Title)
	// no dedicated list for hot weather
	assert.Equal(t, i18n.Recommendations(i18n.French, models.HazardHeavyRain), alerts[0].Recommendations)

	alerts = d.DetectAlerts(obs, "x", "x", i18n.Arabic)
	require.Len(t, alerts, 1)
	assert.Equal(t, "حرارة شديدة", alerts[0].Title)
}

func TestDetectAlerts_RepeatedCallsProduceFreshAlerts(t *testing.T) {
	d, clock := newTestDetector()
	obs := calm()
	obs.Temperature = models.Float(42)

	first := d.DetectAlerts(obs, "tozeur", "Tozeur", i18n.French)
	clock.Advance(time.Second)
	second := d.DetectAlerts(obs, "tozeur", "Tozeur", i18n.French)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].HazardType, second[0].HazardType)
	assert.Equal(t, first[0].Severity, second[0].Severity)
	assert.Equal(t, first[0].Measurement, second[0].Measurement)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[0].Timestamp, second[0].Timestamp)
}

func TestDetectAlerts_IDsUniqueWithinSameInstant(t *testing.T) {
	d, _ := newTestDetector()
	obs := calm()
	obs.Temperature = models.Float(42)

	a := d.DetectAlerts(obs, "tozeur", "Tozeur", i18n.French)
	b := d.DetectAlerts(obs, "tozeur", "Tozeur", i18n.French)
	assert.NotEqual(t, a[0].ID, b[0].ID)
}

func TestDetectAlerts_DoesNotMutateInput(t *testing.T) {
	d, _ := newTestDetector()
	obs := calm()
	obs.WindGusts = models.Float(0)
	before := *obs.Clone()
	d.DetectAlerts(obs, "x", "x", i18n.French)
	assert.Equal(t, before, *obs)
}
