package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func testSituation() *models.Situation {
	now := time.Date(2026, 1, 14, 9, 30, 0, 0, time.UTC)
	return &models.Situation{
		GeneratedAt:     now,
		Locale:          "fr",
		Source:          "Open-Meteo",
		NationalLevel:   models.SeverityRouge,
		CriticalRegions: 1,
		HighRiskRegions: 1,
		RealDataRegions: 2,
		Regions: []models.RegionStatus{
			{
				RegionID:   "bizerte",
				RegionName: "Bizerte",
				Observation: &models.Observation{
					Temperature:   floatPtr(14),
					Precipitation: floatPtr(32),
					WindSpeed:     floatPtr(48),
					Source:        "Open-Meteo",
				},
				Risk:       models.RiskIndices{FloodRisk: 100, StormRisk: 60, OverallAlertLevel: models.SeverityRouge},
				LevelLabel: "Critique",
				AlertCount: 2,
			},
			{
				RegionID:   "tozeur",
				RegionName: "Tozeur",
				Risk:       models.RiskIndices{OverallAlertLevel: models.SeverityVert},
				LevelLabel: "Normal",
			},
		},
		Alerts: []models.Alert{
			{
				ID:          "heavy-rain-bizerte-1",
				HazardType:  models.HazardHeavyRain,
				Severity:    models.SeverityRouge,
				RegionID:    "bizerte",
				RegionName:  "Bizerte",
				Title:       "Fortes pluies",
				Measurement: "32 mm",
				Source:      "Open-Meteo",
				Timestamp:   now,
			},
		},
		Stats: models.AlertStatistics{Total: 1, Rouge: 1},
	}
}

func TestBuildWorkbook_Sheets(t *testing.T) {
	f, err := BuildWorkbook(testSituation(), i18n.French)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, RegionsSheet, AlertsSheet}, f.GetSheetList())

	level, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Critique", level)

	rows, err := f.GetRows(RegionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Gouvernorat", rows[0][0])
	assert.Equal(t, []string{"Bizerte", "Critique", "100", "60"}, rows[1][:4])
	assert.Equal(t, "32", rows[1][7])
	assert.Equal(t, "Tozeur", rows[2][0])
	assert.Equal(t, "", rows[2][6], "missing observation leaves readings blank")

	alerts, err := f.GetRows(AlertsSheet)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, []string{"Critique", "Bizerte", "heavy-rain", "Fortes pluies", "32 mm", "Open-Meteo", "2026-01-14T09:30:00Z"}, alerts[1])
}

func TestBuildWorkbook_SeverityFill(t *testing.T) {
	f, err := BuildWorkbook(testSituation(), i18n.English)
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle(RegionsSheet, "B2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), "EF4444")

	header, err := f.GetCellValue(AlertsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Severity", header)
}

func TestBuildWorkbook_NilSituation(t *testing.T) {
	_, err := BuildWorkbook(nil, i18n.French)
	assert.Error(t, err)
}

func TestWrite_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testSituation(), i18n.Arabic))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(RegionsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "الولاية", header)
}

func TestLocalized_FallsBackToReference(t *testing.T) {
	assert.Equal(t, "Gouvernorat", localized(regionHeaders, i18n.Locale("de"))[0])
}
