package client

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
)

const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1"

const openMeteoCurrentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation," +
	"weather_code,wind_speed_10m,wind_direction_10m,wind_gusts_10m,surface_pressure,visibility,uv_index"

type OpenMeteoClient struct {
	*BaseClient
	baseURL string
}

type OpenMeteoCurrentResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time                string   `json:"time"`
		Temperature2M       *float64 `json:"temperature_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		RelativeHumidity2M  *float64 `json:"relative_humidity_2m"`
		Precipitation       *float64 `json:"precipitation"`
		WeatherCode         *int     `json:"weather_code"`
		WindSpeed10M        *float64 `json:"wind_speed_10m"`
		WindDirection10M    *float64 `json:"wind_direction_10m"`
		WindGusts10M        *float64 `json:"wind_gusts_10m"`
		SurfacePressure     *float64 `json:"surface_pressure"`
		Visibility          *float64 `json:"visibility"`
		UVIndex             *float64 `json:"uv_index"`
	} `json:"current"`
}

// NewOpenMeteoClient builds the keyless primary provider. An empty baseURL
// means the public endpoint.
func NewOpenMeteoClient(baseURL string, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoClient{
		BaseClient: NewBaseClient(SourceOpenMeteo, config, logger),
		baseURL:    baseURL,
	}
}

func (c *OpenMeteoClient) CurrentObservation(ctx context.Context, region regions.Region, locale i18n.Locale) (*models.Observation, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(region.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(region.Longitude, 'f', -1, 64))
	q.Set("current", openMeteoCurrentFields)
	q.Set("timezone", "Africa/Tunis")

	var response OpenMeteoCurrentResponse
	if err := c.getJSON(ctx, c.baseURL+"/forecast?"+q.Encode(), &response); err != nil {
		return nil, err
	}
	cur := response.Current

	obs := &models.Observation{
		RegionID:      region.ID,
		RegionName:    region.LocalName(locale),
		Humidity:      cur.RelativeHumidity2M,
		Precipitation: models.Float(orZero(cur.Precipitation)),
		WindGusts:     rounded(orZero(cur.WindGusts10M)),
		UVIndex:       models.Float(orZero(cur.UVIndex)),
		IsRealData:    true,
		Source:        SourceOpenMeteo,
		Timestamp:     c.clock.Now().UTC(),
	}
	if cur.Temperature2M != nil {
		obs.Temperature = rounded(*cur.Temperature2M)
	}
	if cur.ApparentTemperature != nil {
		obs.FeelsLike = rounded(*cur.ApparentTemperature)
	}
	if cur.SurfacePressure != nil {
		obs.Pressure = rounded(*cur.SurfacePressure)
	}
	if cur.WindSpeed10M != nil {
		obs.WindSpeed = rounded(*cur.WindSpeed10M)
	}
	if cur.WindDirection10M != nil {
		obs.WindDirection = i18n.WindDirection(locale, *cur.WindDirection10M)
	}

	// reported in metres
	visibility := 10000.0
	if cur.Visibility != nil && *cur.Visibility != 0 {
		visibility = *cur.Visibility
	}
	obs.Visibility = rounded(visibility / 1000)

	if cur.WeatherCode != nil {
		code := *cur.WeatherCode
		obs.WeatherCode = models.Int(code)
		obs.WeatherDescription = i18n.WeatherDescription(locale, code)
		obs.WeatherIcon = i18n.WeatherIcon(code)
	}
	return obs, nil
}
