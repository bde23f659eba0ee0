package client

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
)

const DefaultWeatherAPIURL = "https://api.weatherapi.com/v1"

type WeatherAPIClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

type WeatherAPICurrentResponse struct {
	Current struct {
		TempC      *float64 `json:"temp_c"`
		FeelsLikeC *float64 `json:"feelslike_c"`
		Humidity   *float64 `json:"humidity"`
		PressureMB *float64 `json:"pressure_mb"`
		PrecipMM   *float64 `json:"precip_mm"`
		WindKPH    *float64 `json:"wind_kph"`
		WindDir    string   `json:"wind_dir"`
		GustKPH    *float64 `json:"gust_kph"`
		VisKM      *float64 `json:"vis_km"`
		UV         *float64 `json:"uv"`
		Condition  struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
			Code int    `json:"code"`
		} `json:"condition"`
	} `json:"current"`
}

func NewWeatherAPIClient(apiKey, baseURL string, config ClientConfig, logger *zap.Logger) (*WeatherAPIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("weatherapi: %w", ErrMissingAPIKey)
	}
	if baseURL == "" {
		baseURL = DefaultWeatherAPIURL
	}
	return &WeatherAPIClient{
		BaseClient: NewBaseClient(SourceWeatherAPI, config, logger),
		apiKey:     apiKey,
		baseURL:    baseURL,
	}, nil
}

func (c *WeatherAPIClient) CurrentObservation(ctx context.Context, region regions.Region, locale i18n.Locale) (*models.Observation, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", fmt.Sprintf("%g,%g", region.Latitude, region.Longitude))
	q.Set("lang", providerLang(locale))

	var response WeatherAPICurrentResponse
	if err := c.getJSON(ctx, c.baseURL+"/current.json?"+q.Encode(), &response); err != nil {
		return nil, err
	}
	cur := response.Current

	obs := &models.Observation{
		RegionID:           region.ID,
		RegionName:         region.LocalName(locale),
		Humidity:           cur.Humidity,
		Precipitation:      models.Float(orZero(cur.PrecipMM)),
		WindGusts:          rounded(orZero(cur.GustKPH)),
		WindDirection:      cur.WindDir,
		UVIndex:            models.Float(orZero(cur.UV)),
		WeatherDescription: cur.Condition.Text,
		WeatherIcon:        cur.Condition.Icon,
		IsRealData:         true,
		Source:             SourceWeatherAPI,
		Timestamp:          c.clock.Now().UTC(),
	}
	if cur.TempC != nil {
		obs.Temperature = rounded(*cur.TempC)
	}
	if cur.FeelsLikeC != nil {
		obs.FeelsLike = rounded(*cur.FeelsLikeC)
	}
	if cur.PressureMB != nil {
		obs.Pressure = rounded(*cur.PressureMB)
	}
	if cur.WindKPH != nil {
		obs.WindSpeed = rounded(*cur.WindKPH)
	}
	if cur.VisKM != nil {
		obs.Visibility = rounded(*cur.VisKM)
	}
	if code, ok := WeatherAPIToWMO(cur.Condition.Code); ok {
		obs.WeatherCode = models.Int(code)
		if obs.WeatherIcon == "" {
			obs.WeatherIcon = i18n.WeatherIcon(code)
		}
	}
	return obs, nil
}
