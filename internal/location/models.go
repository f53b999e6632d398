package location

import "time"

// Sample is one position fix. Timestamp is epoch milliseconds.
type Sample struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Timestamp int64    `json:"timestamp"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

type Capability string

const (
	Foreground Capability = "foreground"
	Background Capability = "background"
)

type PermissionState struct {
	Foreground bool `json:"foreground"`
	Background bool `json:"background"`
}
