package i18n

import "math"

type weatherCode struct {
	text map[Locale]string
	icon string
}

// WMO weather interpretation codes.
var weatherCodes = map[int]weatherCode{
	0:  {map[Locale]string{French: "Ciel dégagé", Arabic: "سماء صافية", English: "Clear sky"}, "☀️"},
	1:  {map[Locale]string{French: "Principalement dégagé", Arabic: "صافي جزئياً", English: "Mainly clear"}, "🌤️"},
	2:  {map[Locale]string{French: "Partiellement nuageux", Arabic: "غائم جزئياً", English: "Partly cloudy"}, "⛅"},
	3:  {map[Locale]string{French: "Couvert", Arabic: "غائم", English: "Overcast"}, "☁️"},
	45: {map[Locale]string{French: "Brouillard", Arabic: "ضباب", English: "Fog"}, "🌫️"},
	48: {map[Locale]string{French: "Brouillard givrant", Arabic: "ضباب متجمد", English: "Rime fog"}, "🌫️"},
	51: {map[Locale]string{French: "Bruine légère", Arabic: "رذاذ خفيف", English: "Light drizzle"}, "🌧️"},
	53: {map[Locale]string{French: "Bruine modérée", Arabic: "رذاذ معتدل", English: "Moderate drizzle"}, "🌧️"},
	55: {map[Locale]string{French: "Bruine dense", Arabic: "رذاذ كثيف", English: "Dense drizzle"}, "🌧️"},
	61: {map[Locale]string{French: "Pluie légère", Arabic: "أمطار خفيفة", English: "Light rain"}, "🌧️"},
	63: {map[Locale]string{French: "Pluie modérée", Arabic: "أمطار معتدلة", English: "Moderate rain"}, "🌧️"},
	65: {map[Locale]string{French: "Pluie forte", Arabic: "أمطار غزيرة", English: "Heavy rain"}, "🌧️"},
	71: {map[Locale]string{French: "Neige légère", Arabic: "ثلوج خفيفة", English: "Light snow"}, "🌨️"},
	73: {map[Locale]string{French: "Neige modérée", Arabic: "ثلوج معتدلة", English: "Moderate snow"}, "🌨️"},
	75: {map[Locale]string{French: "Neige forte", Arabic: "ثلوج كثيفة", English: "Heavy snow"}, "❄️"},
	80: {map[Locale]string{French: "Averses légères", Arabic: "زخات خفيفة", English: "Light showers"}, "🌦️"},
	81: {map[Locale]string{French: "Averses modérées", Arabic: "زخات معتدلة", English: "Moderate showers"}, "🌦️"},
	82: {map[Locale]string{French: "Averses violentes", Arabic: "زخات عنيفة", English: "Violent showers"}, "⛈️"},
	95: {map[Locale]string{French: "Orage", Arabic: "عاصفة رعدية", English: "Thunderstorm"}, "⛈️"},
	96: {map[Locale]string{French: "Orage avec grêle légère", Arabic: "رعد مع برد خفيف", English: "Thunderstorm with hail"}, "⛈️"},
	99: {map[Locale]string{French: "Orage avec grêle forte", Arabic: "رعد مع برد قوي", English: "Severe thunderstorm"}, "⛈️"},
}

// unknown codes are described as "mainly clear"
const fallbackWeatherCode = 1

// WeatherDescription returns the sky-condition text for a WMO code.
func WeatherDescription(locale Locale, code int) string {
	wc, ok := weatherCodes[code]
	if !ok {
		wc = weatherCodes[fallbackWeatherCode]
	}
	if text, ok := wc.text[locale]; ok {
		return text
	}
	return wc.text[Reference]
}

// WeatherIcon returns the emoji shown next to a WMO code.
func WeatherIcon(code int) string {
	if wc, ok := weatherCodes[code]; ok {
		return wc.icon
	}
	return "🌤️"
}

var compass = map[Locale][8]string{
	French:  {"N", "NE", "E", "SE", "S", "SO", "O", "NO"},
	Arabic:  {"ش", "شر", "ر", "جر", "ج", "جغ", "غ", "شغ"},
	English: {"N", "NE", "E", "SE", "S", "SW", "W", "NW"},
}

// WindDirection converts degrees into an 8-point compass label.
func WindDirection(locale Locale, degrees float64) string {
	points, ok := compass[locale]
	if !ok {
		points = compass[Reference]
	}
	idx := int(math.Round(degrees/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return points[idx]
}
