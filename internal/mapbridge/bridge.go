// Package mapbridge carries map state to the embedded map page of a device
// and interprets the events the page sends back.
//
// Messages are fire-and-forget. Until the page reports map-ready the bridge
// only remembers the latest state; on every map-ready it sends that state again.
package mapbridge

import (
	"encoding/json"
	"log/slog"
	"sync"

	"backend-yatra/internal/facility"
)

// Sender delivers a payload to the map clients of a device.
type Sender interface {
	Broadcast(deviceID string, payload []byte)
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// State is what the map draws. A nil Facilities means "keep the markers you have".
type State struct {
	Position   LatLng              `json:"position"`
	Path       []LatLng            `json:"path"`
	Facilities []facility.Facility `json:"facilities"`
}

type updateMessage struct {
	Type string `json:"type"`
	State
}

type Bridge struct {
	deviceID string
	sender   Sender

	mu         sync.Mutex
	ready      bool
	latest     *State
	facilities []facility.Facility
	lastEvent  *Event
}

func NewBridge(deviceID string, sender Sender) *Bridge {
	return &Bridge{deviceID: deviceID, sender: sender}
}

// Publish records s as the latest state and sends it when the map is ready.
// It reports whether a message went out.
func (b *Bridge) Publish(s State) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.Facilities != nil {
		b.facilities = s.Facilities
	}
	latest := s
	latest.Facilities = b.facilities
	b.latest = &latest

	if !b.ready {
		return false
	}
	return b.sendLocked(s)
}

// HandleEvent applies an event from the map page.
func (b *Bridge) HandleEvent(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastEvent = &ev
	switch ev.Type {
	case EventReady:
		b.ready = true
		if b.latest != nil {
			b.sendLocked(*b.latest)
		}
	default:
		slog.Debug("map event", "device_id", b.deviceID, "type", ev.Type)
	}
}

// Reset marks the map as not ready, e.g. after its page went away.
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready = false
}

func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Latest returns the state a map-ready would replay.
func (b *Bridge) Latest() (State, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest == nil {
		return State{}, false
	}
	return *b.latest, true
}

func (b *Bridge) LastEvent() (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastEvent == nil {
		return Event{}, false
	}
	return *b.lastEvent, true
}

func (b *Bridge) sendLocked(s State) bool {
	if s.Path == nil {
		s.Path = []LatLng{}
	}
	payload, err := json.Marshal(updateMessage{Type: "update", State: s})
	if err != nil {
		slog.Error("encode map update", "device_id", b.deviceID, "err", err)
		return false
	}
	b.sender.Broadcast(b.deviceID, payload)
	return true
}
