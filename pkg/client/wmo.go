package client

// Keyed providers report their own condition codes. Alerting and risk scoring
// work on WMO codes, so these tables translate the codes that matter; anything
// unmapped leaves the observation without a code.

var weatherAPIToWMO = map[int]int{
	1000: 0,
	1003: 2,
	1006: 3,
	1009: 3,
	1030: 45,
	1135: 45,
	1147: 48,
	1150: 51,
	1153: 51,
	1168: 55,
	1180: 61,
	1183: 61,
	1186: 63,
	1189: 63,
	1192: 65,
	1195: 65,
	1210: 71,
	1213: 71,
	1216: 73,
	1219: 73,
	1222: 75,
	1225: 75,
	1240: 80,
	1243: 81,
	1246: 82,
	1087: 95,
	1273: 95,
	1276: 99,
	1279: 95,
	1282: 99,
}

// WeatherAPIToWMO translates a WeatherAPI.com condition code.
func WeatherAPIToWMO(code int) (int, bool) {
	wmo, ok := weatherAPIToWMO[code]
	return wmo, ok
}

// OpenWeatherToWMO translates an OpenWeatherMap condition id.
func OpenWeatherToWMO(id int) (int, bool) {
	switch {
	case id == 202 || id == 212 || id == 221 || id == 232:
		return 99, true
	case id >= 200 && id < 300:
		return 95, true
	case id >= 300 && id < 400:
		return 53, true
	case id == 500:
		return 61, true
	case id == 501:
		return 63, true
	case id >= 502 && id <= 504:
		return 65, true
	case id == 520:
		return 80, true
	case id == 521:
		return 81, true
	case id == 522 || id == 531:
		return 82, true
	case id >= 500 && id < 600:
		return 61, true
	case id == 600 || id == 615 || id == 620:
		return 71, true
	case id == 601 || id == 616 || id == 621:
		return 73, true
	case id >= 600 && id < 700:
		return 75, true
	case id >= 700 && id < 800:
		return 45, true
	case id == 800:
		return 0, true
	case id == 801:
		return 1, true
	case id == 802:
		return 2, true
	case id == 803 || id == 804:
		return 3, true
	}
	return 0, false
}
