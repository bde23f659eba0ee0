package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
)

const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"

// metres per second to kilometres per hour
const msToKmh = 3.6

type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

type OpenWeatherCurrentResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Pressure  *float64 `json:"pressure"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Rain struct {
		OneHour *float64 `json:"1h"`
	} `json:"rain"`
	Visibility *float64 `json:"visibility"`
	Dt         int64    `json:"dt"`
	Name       string   `json:"name"`
	Cod        int      `json:"cod"`
}

func NewOpenWeatherClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openweathermap: %w", ErrMissingAPIKey)
	}
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &OpenWeatherClient{
		BaseClient: NewBaseClient(SourceOpenWeather, config, logger),
		apiKey:     apiKey,
		baseURL:    baseURL,
	}, nil
}

func (c *OpenWeatherClient) CurrentObservation(ctx context.Context, region regions.Region, locale i18n.Locale) (*models.Observation, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(region.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(region.Longitude, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", providerLang(locale))

	var response OpenWeatherCurrentResponse
	if err := c.getJSON(ctx, c.baseURL+"/weather?"+q.Encode(), &response); err != nil {
		return nil, err
	}
	if response.Cod != 0 && response.Cod != 200 {
		return nil, fmt.Errorf("API error: %d", response.Cod)
	}

	obs := &models.Observation{
		RegionID:      region.ID,
		RegionName:    region.LocalName(locale),
		Humidity:      response.Main.Humidity,
		Pressure:      response.Main.Pressure,
		Precipitation: models.Float(orZero(response.Rain.OneHour)),
		WindGusts:     rounded(orZero(response.Wind.Gust) * msToKmh),
		UVIndex:       models.Float(0),
		IsRealData:    true,
		Source:        SourceOpenWeather,
		Timestamp:     c.clock.Now().UTC(),
	}
	if response.Main.Temp != nil {
		obs.Temperature = rounded(*response.Main.Temp)
	}
	if response.Main.FeelsLike != nil {
		obs.FeelsLike = rounded(*response.Main.FeelsLike)
	}
	if response.Wind.Speed != nil {
		obs.WindSpeed = rounded(*response.Wind.Speed * msToKmh)
	}
	if response.Wind.Deg != nil {
		obs.WindDirection = i18n.WindDirection(locale, *response.Wind.Deg)
	}

	visibility := 10000.0
	if response.Visibility != nil && *response.Visibility != 0 {
		visibility = *response.Visibility
	}
	obs.Visibility = rounded(visibility / 1000)

	id := 800
	if len(response.Weather) > 0 {
		w := response.Weather[0]
		if w.ID != 0 {
			id = w.ID
		}
		obs.WeatherDescription = w.Description
		if w.Icon != "" {
			obs.WeatherIcon = fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", w.Icon)
		}
	}
	if code, ok := OpenWeatherToWMO(id); ok {
		obs.WeatherCode = models.Int(code)
		if obs.WeatherIcon == "" {
			obs.WeatherIcon = i18n.WeatherIcon(code)
		}
	}
	return obs, nil
}
