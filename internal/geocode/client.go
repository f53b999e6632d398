// Package geocode talks to a Nominatim-compatible geocoder.
package geocode

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

// Place is one geocoder hit reduced to the fields the app shows.
type Place struct {
	Name        string  `json:"name,omitempty"`
	Street      string  `json:"street,omitempty"`
	Subregion   string  `json:"subregion,omitempty"`
	City        string  `json:"city,omitempty"`
	Region      string  `json:"region,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
	Country     string  `json:"country,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewClient(baseURL, userAgent string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), userAgent: userAgent, http: hc}
}

type nominatimPlace struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

func (n nominatimPlace) place() Place {
	a := n.Address
	p := Place{
		Name:        n.Name,
		Street:      a["road"],
		Subregion:   first(a["suburb"], a["county"], a["state_district"]),
		City:        first(a["city"], a["town"], a["village"]),
		Region:      a["state"],
		PostalCode:  a["postcode"],
		Country:     a["country"],
		DisplayName: n.DisplayName,
	}
	p.Lat, _ = strconv.ParseFloat(n.Lat, 64)
	p.Lng, _ = strconv.ParseFloat(n.Lon, 64)
	return p
}

// Reverse looks up the place at a coordinate.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	q := url.Values{
		"format":         {"jsonv2"},
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lng, 'f', -1, 64)},
		"addressdetails": {"1"},
	}
	var res nominatimPlace
	if err := c.get(ctx, "/reverse", q, &res); err != nil {
		return Place{}, err
	}
	if res.Error != "" {
		return Place{}, fmt.Errorf("reverse geocode: %s: %w", res.Error, apperr.ErrNotFound)
	}
	return res.place(), nil
}

// Search resolves free text to at most limit places.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{
		"format":         {"jsonv2"},
		"q":              {query},
		"limit":          {strconv.Itoa(limit)},
		"addressdetails": {"1"},
	}
	var res []nominatimPlace
	if err := c.get(ctx, "/search", q, &res); err != nil {
		return nil, err
	}
	out := make([]Place, 0, len(res))
	for _, r := range res {
		out = append(out, r.place())
	}
	return out, nil
}

// Forward returns the coordinate of the best match for address.
func (c *Client) Forward(ctx context.Context, address string) (float64, float64, error) {
	places, err := c.Search(ctx, address, 1)
	if err != nil {
		return 0, 0, err
	}
	if len(places) == 0 {
		return 0, 0, fmt.Errorf("geocode %q: %w", address, apperr.ErrNotFound)
	}
	return places[0].Lat, places[0].Lng, nil
}

// Describe is the one-line address of a coordinate, falling back to the
// coordinate itself when the lookup fails or yields nothing.
func (c *Client) Describe(ctx context.Context, lat, lng float64) Address {
	p, err := c.Reverse(ctx, lat, lng)
	if err != nil {
		return Fallback(lat, lng)
	}
	return Format(p, lat, lng)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("geocode: %w", apperr.ErrTimeout)
		}
		return fmt.Errorf("geocode: %w: %v", apperr.ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("geocode status %d: %w", resp.StatusCode, apperr.ErrNetwork)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("geocode decode: %w: %v", apperr.ErrNetwork, err)
	}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
