package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/facility"
	"backend-yatra/internal/jobs"
	"backend-yatra/internal/location"
	"backend-yatra/internal/mapbridge"
)

type stubQuerier struct {
	calls atomic.Int32
}

func (q *stubQuerier) Query(_ context.Context, lat, lng float64) ([]facility.Facility, error) {
	q.calls.Add(1)
	return []facility.Facility{{ID: 1, Name: "Ram Manohar Lohia", Lat: lat + 0.01, Lng: lng, Type: facility.Hospital}}, nil
}

type captureSender struct {
	mu   sync.Mutex
	sent [][]byte
}

func (c *captureSender) Broadcast(_ string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, payload)
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type fixture struct {
	svc        *Service
	feeds      *location.Registry
	facilities *facility.Service
	bridges    *mapbridge.Manager
	sender   *captureSender
	querier  *stubQuerier
	registry *jobs.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, _ := newStore(t)
	f := fixture{
		feeds:    location.NewRegistry(),
		sender:   &captureSender{},
		querier:  &stubQuerier{},
		registry: jobs.NewRegistry(),
	}
	f.bridges = mapbridge.NewManager(f.sender)
	f.facilities = facility.NewService(f.querier)
	f.svc = NewService(store, f.feeds, f.facilities, f.bridges)
	f.svc.RegisterJobs(f.registry)
	t.Cleanup(f.svc.Close)
	return f
}

func (f fixture) waitEffect(t *testing.T, deviceID string) {
	t.Helper()
	f.svc.mu.Lock()
	sess := f.svc.sessions[deviceID]
	f.svc.mu.Unlock()
	if sess == nil {
		t.Fatalf("no session for %s", deviceID)
	}
	sess.effect.Wait()
}

func TestStartRequiresPermission(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Start(context.Background(), "phone-1"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if f.svc.Status(context.Background(), "phone-1").Tracking {
		t.Fatalf("should not be tracking")
	}
}

func TestTrackingRecordsAndRefreshesFacilities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	feed := f.feeds.Feed("phone-1")
	feed.Permissions().Set(location.PermissionState{Foreground: true})

	status, err := f.svc.Start(ctx, "phone-1")
	if err != nil || !status.Tracking {
		t.Fatalf("start: %+v %v", status, err)
	}
	if _, err := f.svc.Start(ctx, "phone-1"); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if feed.Watchers() != 1 {
		t.Fatalf("expected a single watcher, got %d", feed.Watchers())
	}

	f.bridges.HandleMessage("phone-1", []byte("map-ready"))

	feed.Publish(location.Sample{Lat: 28.6139, Lng: 77.2090, Timestamp: 0})
	f.waitEffect(t, "phone-1")
	feed.Publish(location.Sample{Lat: 28.6140, Lng: 77.2091, Timestamp: 1000})
	f.waitEffect(t, "phone-1")
	feed.Publish(location.Sample{Lat: 28.6141, Lng: 77.2092, Timestamp: 6000})
	f.waitEffect(t, "phone-1")

	if got := len(f.svc.Path(ctx, "phone-1")); got != 2 {
		t.Fatalf("expected 2 recorded samples, got %d", got)
	}
	if f.querier.calls.Load() != 1 {
		t.Fatalf("expected one facility request, got %d", f.querier.calls.Load())
	}

	latest, ok := f.bridges.Bridge("phone-1").Latest()
	if !ok || len(latest.Facilities) != 1 {
		t.Fatalf("bridge should hold fetched facilities: %+v", latest)
	}
	if latest.Position.Lat != 28.6141 {
		t.Fatalf("bridge should hold latest position: %+v", latest.Position)
	}
	if f.sender.count() < 3 {
		t.Fatalf("expected updates on the map, got %d", f.sender.count())
	}

	status = f.svc.Stop(ctx, "phone-1")
	if status.Tracking || feed.Watchers() != 0 {
		t.Fatalf("stop should dispose the watch")
	}
	feed.Publish(location.Sample{Lat: 1, Lng: 1, Timestamp: 60_000})
	if got := len(f.svc.Path(ctx, "phone-1")); got != 2 {
		t.Fatalf("fix after stop was recorded")
	}
}

func TestStopDropsDeviceState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	feed := f.feeds.Feed("phone-1")
	feed.Permissions().Set(location.PermissionState{Foreground: true})

	if _, err := f.svc.Start(ctx, "phone-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	feed.Publish(location.Sample{Lat: 28.6139, Lng: 77.2090, Timestamp: 0})
	f.waitEffect(t, "phone-1")

	if len(f.facilities.Facilities("phone-1")) != 1 || f.bridges.Len() != 1 {
		t.Fatalf("expected facilities and a bridge while tracking")
	}

	f.svc.Stop(ctx, "phone-1")

	f.svc.mu.Lock()
	cached := len(f.svc.recorders)
	f.svc.mu.Unlock()
	if cached != 0 {
		t.Fatalf("recorder kept after stop")
	}
	if f.bridges.Len() != 0 {
		t.Fatalf("bridge kept after stop")
	}
	if len(f.facilities.Facilities("phone-1")) != 0 {
		t.Fatalf("facilities kept after stop")
	}
	if got := len(f.svc.Path(ctx, "phone-1")); got != 1 {
		t.Fatalf("stored path should survive stop, got %d", got)
	}
}

func TestUnknownDevicesLeaveNoState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Status(ctx, "ghost")
	f.svc.Summary(ctx, "ghost")
	if _, err := f.svc.Start(ctx, "ghost"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	payload, _ := json.Marshal(BackgroundPayload{DeviceID: "ghost", Locations: []location.Sample{{Lat: 1, Lng: 2}}})
	if err := f.registry.Dispatch(ctx, BackgroundJob, payload); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	f.svc.mu.Lock()
	cached := len(f.svc.recorders)
	f.svc.mu.Unlock()
	if cached != 0 || f.feeds.Len() != 0 {
		t.Fatalf("unknown device left state: %d recorders, %d feeds", cached, f.feeds.Len())
	}
}

func TestClearPathAndSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.svc.Recorder(ctx, "phone-1")
	rec.Append(ctx,
		location.Sample{Lat: 28.6139, Lng: 77.2090, Timestamp: 0},
		location.Sample{Lat: 28.6239, Lng: 77.2090, Timestamp: 60_000},
	)

	sum := f.svc.Summary(ctx, "phone-1")
	if sum.PointCount != 2 || sum.DurationSec != 60 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.DistanceM < 1100 || sum.DistanceM > 1125 {
		t.Fatalf("unexpected distance %.1f", sum.DistanceM)
	}

	f.svc.ClearPath(ctx, "phone-1")
	if len(f.svc.Path(ctx, "phone-1")) != 0 {
		t.Fatalf("expected empty path")
	}
}

func TestBackgroundJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if f.svc.RegisterJobs(f.registry) {
		t.Fatalf("second registration should be ignored")
	}

	payload, _ := json.Marshal(BackgroundPayload{
		DeviceID:  "phone-1",
		Locations: []location.Sample{{Lat: 1, Lng: 2, Timestamp: 100}, {Lat: 3, Lng: 4, Timestamp: 200}},
	})
	if err := f.registry.Dispatch(ctx, BackgroundJob, payload); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	f.feeds.Feed("phone-1").Permissions().Set(location.PermissionState{Foreground: true, Background: true})
	if err := f.registry.Dispatch(ctx, BackgroundJob, payload); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	path := f.svc.Path(ctx, "phone-1")
	if len(path) != 1 || path[0].Lat != 1 {
		t.Fatalf("expected first background fix recorded, got %+v", path)
	}

	if err := f.registry.Dispatch(ctx, BackgroundJob, json.RawMessage(`{"locations":[]}`)); err == nil {
		t.Fatalf("expected error without device id")
	}
}
