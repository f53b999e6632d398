package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"backend-yatra/internal/apperr"
)

const DefaultRadiusM = 3000

// Querier looks up facilities around a coordinate.
type Querier interface {
	Query(ctx context.Context, lat, lng float64) ([]Facility, error)
}

// StatusError is a non-2xx answer from the POI backend.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overpass status %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	return apperr.ErrNetwork
}

// Retryable is true for the statuses Overpass uses when it is overloaded.
func (e *StatusError) Retryable() bool {
	switch e.Code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, 514:
		return true
	}
	return false
}

type OverpassClient struct {
	url     string
	radiusM int
	http    *http.Client
}

func NewOverpassClient(endpoint string, radiusM int, hc *http.Client) *OverpassClient {
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &OverpassClient{url: endpoint, radiusM: radiusM, http: hc}
}

func BuildQuery(lat, lng float64, radiusM int) string {
	return fmt.Sprintf(`[out:json][timeout:10];
(
  node["amenity"="hospital"](around:%[1]d,%[2]f,%[3]f);
  node["amenity"="clinic"](around:%[1]d,%[2]f,%[3]f);
  node["tourism"="hotel"](around:%[1]d,%[2]f,%[3]f);
);
out;`, radiusM, lat, lng)
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat"`
	Lon  *float64          `json:"lon"`
	Tags map[string]string `json:"tags"`
}

func (c *OverpassClient) Query(ctx context.Context, lat, lng float64) ([]Facility, error) {
	form := url.Values{"data": {BuildQuery(lat, lng, c.radiusM)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("overpass decode: %w: %v", apperr.ErrNetwork, err)
	}
	return toFacilities(body.Elements, time.Now()), nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("overpass: %w", apperr.ErrTimeout)
	}
	return fmt.Errorf("overpass: %w: %v", apperr.ErrNetwork, err)
}

func toFacilities(elements []overpassElement, now time.Time) []Facility {
	out := make([]Facility, 0, len(elements))
	for i, el := range elements {
		if el.Lat == nil || el.Lon == nil || el.Tags == nil {
			continue
		}
		kind, placeholder := classifyTags(el.Tags)
		name := el.Tags["name"]
		if name == "" {
			name = placeholder
		}
		id := el.ID
		if id == 0 {
			id = now.UnixMilli() + int64(i)
		}
		out = append(out, Facility{ID: id, Name: name, Lat: *el.Lat, Lng: *el.Lon, Type: kind})
	}
	return out
}

// classifyTags maps OSM tags to a facility type and the name used when the
// element has none. Unrecognized elements are shown as hospitals.
func classifyTags(tags map[string]string) (Type, string) {
	switch {
	case tags["amenity"] == "hospital":
		return Hospital, "Hospital"
	case tags["amenity"] == "clinic":
		return Clinic, "Clinic"
	case tags["tourism"] == "hotel":
		return Hotel, "Hotel"
	default:
		return Hospital, "Facility"
	}
}
