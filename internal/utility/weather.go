package utility

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
)

// Sarajevo is the default location of the weather widget.
const (
	DefaultLat      = "43.8563"
	DefaultLon      = "18.4131"
	DefaultTimezone = "Europe/Sarajevo"
)

type CurrentWeather struct {
	Time        string  `json:"time"`
	Interval    int     `json:"interval,omitempty"`
	Temperature float64 `json:"temperature_2m"`
	WeatherCode int     `json:"weather_code"`
}

// WeatherReport mirrors the open-meteo forecast response fields the portal uses.
type WeatherReport struct {
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	Timezone     string            `json:"timezone"`
	CurrentUnits map[string]string `json:"current_units,omitempty"`
	Current      CurrentWeather    `json:"current"`
}

// Weather returns current conditions at lat/lon. Empty arguments use the
// Sarajevo defaults.
func (c *Client) Weather(ctx context.Context, lat, lon, tz string) (*WeatherReport, error) {
	if lat == "" {
		lat = DefaultLat
	}
	if lon == "" {
		lon = DefaultLon
	}
	if tz == "" {
		tz = DefaultTimezone
	}
	q := url.Values{}
	q.Set("latitude", lat)
	q.Set("longitude", lon)
	q.Set("current", "temperature_2m,weather_code")
	q.Set("timezone", tz)

	body, err := c.get(ctx, providerOpenMeteo, c.endpoints.OpenMeteo+"/v1/forecast?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: weather: %v", ErrUpstreamUnavailable, err)
	}
	var out WeatherReport
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: weather: decode: %v", ErrUpstreamUnavailable, err)
	}
	return &out, nil
}
