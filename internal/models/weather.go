package models

import (
	"time"
)

// Observation is one normalized set of current conditions for a region.
// Numeric fields are pointers because upstream providers may omit any of them.
type Observation struct {
	RegionID           string    `json:"region_id"`
	RegionName         string    `json:"region_name,omitempty"`
	Temperature        *float64  `json:"temperature,omitempty"`
	FeelsLike          *float64  `json:"feels_like,omitempty"`
	Humidity           *float64  `json:"humidity,omitempty"`
	Precipitation      *float64  `json:"precipitation,omitempty"`
	WindSpeed          *float64  `json:"wind_speed,omitempty"`
	WindGusts          *float64  `json:"wind_gusts,omitempty"`
	WindDirection      string    `json:"wind_direction,omitempty"`
	Visibility         *float64  `json:"visibility,omitempty"`
	Pressure           *float64  `json:"pressure,omitempty"`
	UVIndex            *float64  `json:"uv_index,omitempty"`
	WeatherCode        *int      `json:"weather_code,omitempty"`
	WeatherDescription string    `json:"weather_description,omitempty"`
	WeatherIcon        string    `json:"weather_icon,omitempty"`
	IsRealData         bool      `json:"is_real_data"`
	Source             string    `json:"source"`
	Timestamp          time.Time `json:"timestamp"`
	FromCache          bool      `json:"from_cache,omitempty"`
}

// Clone returns a shallow copy whose pointer fields no longer alias o.
func (o *Observation) Clone() *Observation {
	if o == nil {
		return nil
	}
	c := *o
	c.Temperature = cloneFloat(o.Temperature)
	c.FeelsLike = cloneFloat(o.FeelsLike)
	c.Humidity = cloneFloat(o.Humidity)
	c.Precipitation = cloneFloat(o.Precipitation)
	c.WindSpeed = cloneFloat(o.WindSpeed)
	c.WindGusts = cloneFloat(o.WindGusts)
	c.Visibility = cloneFloat(o.Visibility)
	c.Pressure = cloneFloat(o.Pressure)
	c.UVIndex = cloneFloat(o.UVIndex)
	if o.WeatherCode != nil {
		code := *o.WeatherCode
		c.WeatherCode = &code
	}
	return &c
}

// Float returns a pointer to v. Handy for building observations by hand.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
