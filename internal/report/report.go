// Package report exports a situation snapshot as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
)

const (
	SummarySheet = "Summary"
	RegionsSheet = "Regions"
	AlertsSheet  = "Alerts"
)

var regionHeaders = map[i18n.Locale][]string{
	i18n.French:  {"Gouvernorat", "Niveau", "Inondation", "Tempête", "Canicule", "Agricole", "Température (°C)", "Précipitations (mm)", "Vent (km/h)", "Alertes", "Source"},
	i18n.Arabic:  {"الولاية", "المستوى", "فيضان", "عاصفة", "موجة حر", "فلاحي", "الحرارة (°C)", "الأمطار (mm)", "الرياح (km/h)", "التنبيهات", "المصدر"},
	i18n.English: {"Governorate", "Level", "Flood", "Storm", "Heatwave", "Agricultural", "Temperature (°C)", "Precipitation (mm)", "Wind (km/h)", "Alerts", "Source"},
}

var alertHeaders = map[i18n.Locale][]string{
	i18n.French:  {"Sévérité", "Gouvernorat", "Type", "Titre", "Mesure", "Source", "Horodatage"},
	i18n.Arabic:  {"الخطورة", "الولاية", "النوع", "العنوان", "القياس", "المصدر", "التوقيت"},
	i18n.English: {"Severity", "Governorate", "Type", "Title", "Measurement", "Source", "Timestamp"},
}

var summaryLabels = map[i18n.Locale][]string{
	i18n.French:  {"Généré le", "Source", "Niveau national", "Régions critiques", "Régions à risque élevé", "Régions en données réelles", "Alertes", "Rouge", "Orange", "Jaune", "Vert"},
	i18n.Arabic:  {"تاريخ الإنشاء", "المصدر", "المستوى الوطني", "ولايات حرجة", "ولايات عالية الخطورة", "ولايات ببيانات حقيقية", "التنبيهات", "أحمر", "برتقالي", "أصفر", "أخضر"},
	i18n.English: {"Generated at", "Source", "National level", "Critical regions", "High-risk regions", "Real-data regions", "Alerts", "Red", "Orange", "Yellow", "Green"},
}

func localized(table map[i18n.Locale][]string, locale i18n.Locale) []string {
	if v, ok := table[locale]; ok {
		return v
	}
	return table[i18n.Reference]
}

type styles struct {
	header   int
	severity map[models.Severity]int
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	st := &styles{header: header, severity: make(map[models.Severity]int, len(models.Severities))}
	for _, sev := range models.Severities {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{sev.Color()}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s style: %w", sev, err)
		}
		st.severity[sev] = id
	}
	return st, nil
}

// BuildWorkbook lays the situation out on three sheets: a summary, one row
// per region and one row per alert. The caller owns the returned file.
func BuildWorkbook(s *models.Situation, locale i18n.Locale) (*excelize.File, error) {
	if s == nil {
		return nil, fmt.Errorf("no situation to export")
	}
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{RegionsSheet, AlertsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	for _, write := range []func(*excelize.File, *styles, *models.Situation, i18n.Locale) error{
		writeSummary, writeRegions, writeAlerts,
	} {
		if err := write(f, st, s, locale); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook for s to w.
func Write(w io.Writer, s *models.Situation, locale i18n.Locale) error {
	f, err := BuildWorkbook(s, locale)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, st *styles, s *models.Situation, locale i18n.Locale) error {
	labels := localized(summaryLabels, locale)
	values := []interface{}{
		s.GeneratedAt.UTC().Format(time.RFC3339),
		s.Source,
		i18n.LevelLabel(locale, s.NationalLevel),
		s.CriticalRegions,
		s.HighRiskRegions,
		s.RealDataRegions,
		s.Stats.Total,
		s.Stats.Rouge,
		s.Stats.Orange,
		s.Stats.Jaune,
		s.Stats.Vert,
	}
	for i, label := range labels {
		row := i + 1
		if err := setRow(f, SummarySheet, row, []interface{}{label, values[i]}); err != nil {
			return err
		}
		if err := styleCell(f, SummarySheet, 1, row, st.header); err != nil {
			return err
		}
	}
	if err := styleCell(f, SummarySheet, 2, 3, st.severity[s.NationalLevel]); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "B", 28)
}

func writeRegions(f *excelize.File, st *styles, s *models.Situation, locale i18n.Locale) error {
	if err := writeHeader(f, RegionsSheet, localized(regionHeaders, locale), st.header); err != nil {
		return err
	}
	for i, r := range s.Regions {
		row := i + 2
		var temp, precip, wind interface{}
		source := ""
		if obs := r.Observation; obs != nil {
			temp, precip, wind = cellFloat(obs.Temperature), cellFloat(obs.Precipitation), cellFloat(obs.WindSpeed)
			source = obs.Source
		}
		values := []interface{}{
			r.RegionName,
			r.LevelLabel,
			r.Risk.FloodRisk,
			r.Risk.StormRisk,
			r.Risk.HeatwaveRisk,
			r.Risk.AgriculturalRisk,
			temp,
			precip,
			wind,
			r.AlertCount,
			source,
		}
		if err := setRow(f, RegionsSheet, row, values); err != nil {
			return err
		}
		if id, ok := st.severity[r.Risk.OverallAlertLevel]; ok {
			if err := styleCell(f, RegionsSheet, 2, row, id); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(RegionsSheet, "A", "K", 16)
}

func writeAlerts(f *excelize.File, st *styles, s *models.Situation, locale i18n.Locale) error {
	if err := writeHeader(f, AlertsSheet, localized(alertHeaders, locale), st.header); err != nil {
		return err
	}
	for i, a := range s.Alerts {
		row := i + 2
		values := []interface{}{
			i18n.LevelLabel(locale, a.Severity),
			a.RegionName,
			string(a.HazardType),
			a.Title,
			a.Measurement,
			a.Source,
			a.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := setRow(f, AlertsSheet, row, values); err != nil {
			return err
		}
		if id, ok := st.severity[a.Severity]; ok {
			if err := styleCell(f, AlertsSheet, 1, row, id); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(AlertsSheet, "A", "C", 16); err != nil {
		return err
	}
	return f.SetColWidth(AlertsSheet, "D", "G", 28)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("failed to style %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// missing readings stay blank
func cellFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
