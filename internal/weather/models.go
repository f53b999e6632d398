package weather

import "backend-yatra/internal/geocode"

const (
	hourlySlots = 6
	dailySlots  = 7
)

type Current struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	Code          *int    `json:"code"`
	Icon          string  `json:"icon"`
	Time          string  `json:"time"`
}

type Hour struct {
	Time          string   `json:"time"`
	Temperature   *float64 `json:"temperature"`
	Precipitation *float64 `json:"precipitation"`
}

type Day struct {
	Date          string   `json:"date"`
	Max           *float64 `json:"max"`
	Min           *float64 `json:"min"`
	Precipitation *float64 `json:"precipitation"`
	Code          *int     `json:"code"`
	Icon          string   `json:"icon"`
}

type Forecast struct {
	Current Current `json:"current"`
	Hourly  []Hour  `json:"hourly"`
	Daily   []Day   `json:"daily"`
}

// Report is a forecast together with the address of the spot it is for.
type Report struct {
	Address  *geocode.Address `json:"address,omitempty"`
	Forecast Forecast         `json:"forecast"`
}
