package mapbridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type EventType string

const (
	EventReady EventType = "map-ready"
	EventClick EventType = "click"
	EventMove  EventType = "move"
	EventZoom  EventType = "zoom"
)

var ErrUnknownEvent = errors.New("unknown map event")

type Event struct {
	Type   EventType `json:"type"`
	Lat    float64   `json:"lat,omitempty"`
	Lng    float64   `json:"lng,omitempty"`
	Center *LatLng   `json:"center,omitempty"`
	Zoom   float64   `json:"zoom,omitempty"`
}

// ParseEvent accepts a JSON object with a type field, or the bare text
// map-ready that older map pages send.
func ParseEvent(payload []byte) (Event, error) {
	trimmed := bytes.TrimSpace(payload)
	if string(trimmed) == string(EventReady) || string(trimmed) == `"`+string(EventReady)+`"` {
		return Event{Type: EventReady}, nil
	}

	var ev Event
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrUnknownEvent, err)
	}
	switch ev.Type {
	case EventReady, EventClick, EventMove, EventZoom:
		return ev, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}
