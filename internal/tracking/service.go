package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"backend-yatra/internal/facility"
	"backend-yatra/internal/jobs"
	"backend-yatra/internal/kv"
	"backend-yatra/internal/location"
	"backend-yatra/internal/mapbridge"
	"backend-yatra/internal/reactive"
	"backend-yatra/internal/shared/geo"
)

// Service ties a device's position feed to its path recorder, its facility
// fetcher and its map bridge for as long as tracking is on.
type Service struct {
	store      kv.Store
	feeds      *location.Registry
	facilities *facility.Service
	bridges    *mapbridge.Manager

	mu        sync.Mutex
	recorders map[string]*Recorder
	sessions  map[string]*session
}

type session struct {
	sub    *location.Subscription
	effect *reactive.Effect
	cancel context.CancelFunc
}

// NewService wires tracking. facilities and bridges may be nil, in which case
// fixes are only recorded.
func NewService(store kv.Store, feeds *location.Registry, facilities *facility.Service, bridges *mapbridge.Manager) *Service {
	return &Service{
		store:      store,
		feeds:      feeds,
		facilities: facilities,
		bridges:    bridges,
		recorders:  map[string]*Recorder{},
		sessions:   map[string]*session{},
	}
}

// RegisterJobs binds the background location task. A second call keeps the
// first binding and returns false.
func (s *Service) RegisterJobs(reg *jobs.Registry) bool {
	return reg.Register(BackgroundJob, s.handleBackground)
}

// Recorder returns the device's recorder. Only tracked devices keep theirs in
// memory; for the rest the stored path is loaded on each call.
func (s *Service) Recorder(ctx context.Context, deviceID string) *Recorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recorders[deviceID]; ok {
		return rec
	}
	rec := NewRecorder(s.store, pathKey(deviceID))
	rec.Load(ctx)
	return rec
}

// Start begins watching the device's position. Starting twice is a no-op.
func (s *Service) Start(ctx context.Context, deviceID string) (Status, error) {
	if s.tracking(deviceID) {
		return s.Status(ctx, deviceID), nil
	}

	feed := s.feed(deviceID)
	rec := s.Recorder(ctx, deviceID)

	sctx, cancel := context.WithCancel(context.Background())
	effect := reactive.NewEffect(sctx, func(ctx context.Context, deps []any) {
		s.refreshFacilities(ctx, deviceID, deps[0].(float64), deps[1].(float64))
	})
	sub, err := feed.Watch(func(sample location.Sample) {
		s.onFix(sctx, deviceID, rec, effect, sample)
	})
	if err != nil {
		cancel()
		return Status{}, err
	}

	s.mu.Lock()
	if _, ok := s.sessions[deviceID]; ok {
		s.mu.Unlock()
		sub.Dispose()
		cancel()
		return s.Status(ctx, deviceID), nil
	}
	s.sessions[deviceID] = &session{sub: sub, effect: effect, cancel: cancel}
	s.recorders[deviceID] = rec
	s.mu.Unlock()

	slog.Info("tracking started", "device_id", deviceID)
	return s.Status(ctx, deviceID), nil
}

// Stop ends tracking, abandons any facility request still running and drops
// the device's in-memory state. The recorded path stays in the store.
func (s *Service) Stop(ctx context.Context, deviceID string) Status {
	s.mu.Lock()
	sess, ok := s.sessions[deviceID]
	delete(s.sessions, deviceID)
	delete(s.recorders, deviceID)
	s.mu.Unlock()

	if ok {
		sess.sub.Dispose()
		sess.cancel()
		if s.facilities != nil {
			s.facilities.Forget(deviceID)
		}
		if s.bridges != nil {
			s.bridges.Remove(deviceID)
		}
		slog.Info("tracking stopped", "device_id", deviceID)
	}
	return s.Status(ctx, deviceID)
}

// Close stops every active session.
func (s *Service) Close() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.Stop(context.Background(), id)
	}
}

func (s *Service) Status(ctx context.Context, deviceID string) Status {
	return Status{
		DeviceID:   deviceID,
		Tracking:   s.tracking(deviceID),
		PathLength: s.Recorder(ctx, deviceID).Len(),
	}
}

func (s *Service) Path(ctx context.Context, deviceID string) []location.Sample {
	return s.Recorder(ctx, deviceID).Path()
}

func (s *Service) ClearPath(ctx context.Context, deviceID string) {
	s.Recorder(ctx, deviceID).Clear(ctx)
}

func (s *Service) Summary(ctx context.Context, deviceID string) Summary {
	path := s.Path(ctx, deviceID)
	out := Summary{DeviceID: deviceID, PointCount: len(path)}
	for i := 1; i < len(path); i++ {
		out.DistanceM += geo.HaversineKm(path[i-1].Lat, path[i-1].Lng, path[i].Lat, path[i].Lng) * 1000
	}
	if len(path) > 1 {
		out.DurationSec = (path[len(path)-1].Timestamp - path[0].Timestamp) / 1000
	}
	return out
}

// feed looks the device up without registering it. A device the registry has
// never seen has granted nothing.
func (s *Service) feed(deviceID string) *location.Feed {
	if f, ok := s.feeds.Lookup(deviceID); ok {
		return f
	}
	return location.NewFeed(location.NewPermissions())
}

func (s *Service) tracking(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[deviceID]
	return ok
}

func (s *Service) onFix(ctx context.Context, deviceID string, rec *Recorder, effect *reactive.Effect, sample location.Sample) {
	rec.Record(ctx, sample)
	if s.bridges != nil {
		s.bridges.Bridge(deviceID).Publish(mapbridge.State{
			Position: mapbridge.LatLng{Lat: sample.Lat, Lng: sample.Lng},
			Path:     toLatLng(rec.Path()),
		})
	}
	// the fetcher has its own distance gate; the grid just avoids a run per fix
	effect.Observe(geo.Quantize(sample.Lat), geo.Quantize(sample.Lng))
}

func (s *Service) refreshFacilities(ctx context.Context, deviceID string, lat, lng float64) {
	if s.facilities == nil {
		return
	}
	res, err := s.facilities.Fetch(ctx, deviceID, lat, lng, false)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("facility refresh failed", "device_id", deviceID, "err", err)
		}
		return
	}
	if !res.Outcome.Changed() || s.bridges == nil {
		return
	}
	b := s.bridges.Bridge(deviceID)
	state, _ := b.Latest()
	state.Facilities = res.Facilities
	b.Publish(state)
}

func (s *Service) handleBackground(ctx context.Context, raw json.RawMessage) error {
	var p BackgroundPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("decode background payload: %w", err)
	}
	if p.DeviceID == "" {
		return errors.New("background payload: device_id required")
	}
	if err := s.feed(p.DeviceID).Permissions().Require(location.Background); err != nil {
		return err
	}
	if len(p.Locations) == 0 {
		return nil
	}
	// one fix per wake-up, the first of the batch
	s.Recorder(ctx, p.DeviceID).Append(ctx, p.Locations[0])
	return nil
}

func toLatLng(path []location.Sample) []mapbridge.LatLng {
	out := make([]mapbridge.LatLng, len(path))
	for i, p := range path {
		out[i] = mapbridge.LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return out
}
