// Package openweather adapts the OpenWeather current weather API.
// Docs: https://openweathermap.org/current
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"daybrief/internal/apierr"
	"daybrief/internal/httpjson"
	"daybrief/internal/model"
	"daybrief/internal/provider"
)

const Name = "openweather"

type Client struct {
	baseURL  string
	key      provider.KeyFunc
	http     httpjson.Getter
	language string
}

func NewClient(baseURL string, key provider.KeyFunc, getter httpjson.Getter, language string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.openweathermap.org"
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		key:      key,
		http:     getter,
		language: language,
	}
}

func (c *Client) Name() string     { return Name }
func (c *Client) Configured() bool { return c.key() != "" }

// current mirrors the subset of the /data/2.5/weather payload we use.
type current struct {
	// cod is a number on success and frequently a string on errors.
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
	Coord   struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Visibility *float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

// ErrNoData is returned when the provider answered without any measurements.
var ErrNoData = errors.New("openweather: response carried no weather data")

// Current returns current conditions for coordinates or a city name, in metric units.
func (c *Client) Current(ctx context.Context, loc model.Location) (model.WeatherSnapshot, error) {
	var zero model.WeatherSnapshot
	key := c.key()
	if key == "" {
		return zero, &apierr.NotConfiguredError{What: "weather"}
	}
	q := url.Values{"units": {"metric"}, "appid": {key}}
	if loc.HasCoords {
		q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
		q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', 4, 64))
	} else {
		q.Set("q", strings.TrimSpace(loc.City))
	}
	if c.language != "" {
		q.Set("lang", c.language)
	}
	var cur current
	if err := c.http.GetJSON(ctx, c.baseURL+"/data/2.5/weather?"+q.Encode(), &cur); err != nil {
		return zero, err
	}
	if code := parseCod(cur.Cod); code != 0 && code != 200 {
		if code == 401 {
			return zero, apierr.NewAuthError(Name, 401, "401", cur.Message)
		}
		return zero, &apierr.TransportError{Provider: Name, Code: strconv.Itoa(code), Message: cur.Message}
	}
	if cur.Main == nil {
		return zero, &apierr.MalformedError{Provider: Name, Err: ErrNoData}
	}
	return convert(cur), nil
}

func convert(cur current) model.WeatherSnapshot {
	s := model.WeatherSnapshot{
		City: model.City{
			Name:    cur.Name,
			Country: cur.Sys.Country,
			Lat:     cur.Coord.Lat,
			Lon:     cur.Coord.Lon,
		},
		TempC:       int(math.Round(cur.Main.Temp)),
		FeelsLikeC:  int(math.Round(cur.Main.FeelsLike)),
		HumidityPct: cur.Main.Humidity,
		PressureHpa: cur.Main.Pressure,
		WindSpeed:   cur.Wind.Speed,
		WindDegrees: cur.Wind.Deg,
		SunriseMs:   cur.Sys.Sunrise * 1000,
		SunsetMs:    cur.Sys.Sunset * 1000,
	}
	if len(cur.Weather) > 0 {
		s.Description = cur.Weather[0].Description
		s.IconCode = cur.Weather[0].Icon
	}
	if cur.Visibility != nil {
		km := *cur.Visibility / 1000
		s.VisibilityKm = &km
	}
	return s
}

func parseCod(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
