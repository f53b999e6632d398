// Package weather reads forecasts from an Open-Meteo compatible backend.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"backend-yatra/internal/apperr"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature   float64 `json:"temperature"`
		WindSpeed     float64 `json:"windspeed"`
		WindDirection float64 `json:"winddirection"`
		WeatherCode   *int    `json:"weathercode"`
		Time          string  `json:"time"`
	} `json:"current_weather"`
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation"`
	} `json:"hourly"`
	Daily struct {
		Time             []string   `json:"time"`
		TemperatureMax   []*float64 `json:"temperature_2m_max"`
		TemperatureMin   []*float64 `json:"temperature_2m_min"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		WeatherCode      []*int     `json:"weathercode"`
	} `json:"daily"`
}

func (c *Client) Forecast(ctx context.Context, lat, lng float64) (Forecast, error) {
	q := url.Values{
		"latitude":        {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(lng, 'f', -1, 64)},
		"current_weather": {"true"},
		"hourly":          {"temperature_2m,precipitation"},
		"daily":           {"temperature_2m_max,temperature_2m_min,precipitation_sum,weathercode"},
		"timezone":        {"auto"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Forecast{}, fmt.Errorf("weather: %w", apperr.ErrTimeout)
		}
		return Forecast{}, fmt.Errorf("weather: %w: %v", apperr.ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Forecast{}, fmt.Errorf("weather status %d: %w", resp.StatusCode, apperr.ErrNetwork)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Forecast{}, fmt.Errorf("weather decode: %w: %v", apperr.ErrNetwork, err)
	}
	return body.forecast(), nil
}

// forecast keeps the next six hours and seven days. Series that come back
// shorter than their time axis leave the missing values nil.
func (r openMeteoResponse) forecast() Forecast {
	f := Forecast{Hourly: []Hour{}, Daily: []Day{}}
	if cw := r.CurrentWeather; cw != nil {
		f.Current = Current{
			Temperature:   cw.Temperature,
			WindSpeed:     cw.WindSpeed,
			WindDirection: cw.WindDirection,
			Code:          cw.WeatherCode,
			Icon:          Icon(cw.WeatherCode),
			Time:          cw.Time,
		}
	} else {
		f.Current.Icon = Icon(nil)
	}

	for i, t := range r.Hourly.Time {
		if i == hourlySlots {
			break
		}
		f.Hourly = append(f.Hourly, Hour{
			Time:          t,
			Temperature:   at(r.Hourly.Temperature, i),
			Precipitation: at(r.Hourly.Precipitation, i),
		})
	}
	for i, d := range r.Daily.Time {
		if i == dailySlots {
			break
		}
		code := at(r.Daily.WeatherCode, i)
		f.Daily = append(f.Daily, Day{
			Date:          d,
			Max:           at(r.Daily.TemperatureMax, i),
			Min:           at(r.Daily.TemperatureMin, i),
			Precipitation: at(r.Daily.PrecipitationSum, i),
			Code:          code,
			Icon:          Icon(code),
		})
	}
	return f
}

func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}
