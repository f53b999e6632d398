package facility

import (
	"context"
	"log/slog"
	"math"
	"sync"
)

const dedupeDeg = 0.001

// Service keeps one Fetcher per device so each map view has its own
// facility set, request spacing and cache.
type Service struct {
	client Querier
	opts   []FetcherOption

	mu       sync.Mutex
	fetchers map[string]*Fetcher
}

func NewService(client Querier, opts ...FetcherOption) *Service {
	return &Service{client: client, opts: opts, fetchers: map[string]*Fetcher{}}
}

func (s *Service) Fetcher(deviceID string) *Fetcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fetchers[deviceID]
	if !ok {
		f = NewFetcher(s.client, s.opts...)
		s.fetchers[deviceID] = f
	}
	return f
}

func (s *Service) Fetch(ctx context.Context, deviceID string, lat, lng float64, force bool) (Result, error) {
	return s.Fetcher(deviceID).Fetch(ctx, lat, lng, force)
}

func (s *Service) Facilities(deviceID string) []Facility {
	s.mu.Lock()
	f, ok := s.fetchers[deviceID]
	s.mu.Unlock()
	if !ok {
		return []Facility{}
	}
	return f.Facilities()
}

// Detach abandons the device's running request, if any.
func (s *Service) Detach(deviceID string) {
	s.mu.Lock()
	f, ok := s.fetchers[deviceID]
	s.mu.Unlock()
	if ok {
		f.Detach()
	}
}

// Forget detaches the device's fetcher and drops it with its cached list.
func (s *Service) Forget(deviceID string) {
	s.mu.Lock()
	f, ok := s.fetchers[deviceID]
	delete(s.fetchers, deviceID)
	s.mu.Unlock()
	if ok {
		f.Detach()
	}
}

// AroundRoute collects facilities near both ends of a trip. An endpoint whose
// lookup fails contributes nothing. Facilities closer than 0.001 degrees in
// both axes to one already collected are dropped.
func (s *Service) AroundRoute(ctx context.Context, points ...Point) []Facility {
	out := []Facility{}
	for _, p := range points {
		found, err := s.client.Query(ctx, p.Lat, p.Lng)
		if err != nil {
			slog.Warn("route facility lookup failed", "lat", p.Lat, "lng", p.Lng, "err", err)
			continue
		}
		for _, f := range found {
			if !nearDuplicate(out, f) {
				out = append(out, f)
			}
		}
	}
	return out
}

func nearDuplicate(list []Facility, f Facility) bool {
	for _, existing := range list {
		if math.Abs(existing.Lat-f.Lat) < dedupeDeg && math.Abs(existing.Lng-f.Lng) < dedupeDeg {
			return true
		}
	}
	return false
}
