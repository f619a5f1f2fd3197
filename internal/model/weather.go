package model

import (
	"fmt"
	"strings"
)

// City identifies the place a weather snapshot belongs to.
type City struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// WeatherSnapshot is the current weather for a city.
type WeatherSnapshot struct {
	City         City     `json:"city"`
	TempC        int      `json:"tempC"`
	FeelsLikeC   int      `json:"feelsLikeC"`
	HumidityPct  int      `json:"humidityPct"`
	PressureHpa  int      `json:"pressureHpa"`
	Description  string   `json:"description"`
	IconCode     string   `json:"iconCode"`
	WindSpeed    float64  `json:"windSpeed"`
	WindDegrees  int      `json:"windDegrees"`
	VisibilityKm *float64 `json:"visibilityKm,omitempty"`
	SunriseMs    int64    `json:"sunriseMs"`
	SunsetMs     int64    `json:"sunsetMs"`
}

// Location is a weather query target: coordinates when HasCoords, otherwise a city name.
type Location struct {
	Lat       float64
	Lon       float64
	HasCoords bool
	City      string
}

// Coords builds a coordinate location.
func Coords(lat, lon float64) Location {
	return Location{Lat: lat, Lon: lon, HasCoords: true}
}

// Key is a stable identity used in cache fingerprints.
func (l Location) Key() string {
	if l.HasCoords {
		return fmt.Sprintf("%.2f,%.2f", l.Lat, l.Lon)
	}
	return "city:" + strings.ToLower(strings.TrimSpace(l.City))
}

// Empty reports whether the location names nothing.
func (l Location) Empty() bool {
	return !l.HasCoords && strings.TrimSpace(l.City) == ""
}
