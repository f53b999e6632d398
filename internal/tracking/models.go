package tracking

import (
	"time"

	"backend-yatra/internal/location"
)

const (
	MaxPathSamples    = 1000
	MinRecordInterval = 5000 * time.Millisecond

	pathKeyPrefix = "user_location_path:"

	// BackgroundJob is the job name devices post background fixes under.
	BackgroundJob = "background-location-task"
)

func pathKey(deviceID string) string {
	return pathKeyPrefix + deviceID
}

type Status struct {
	DeviceID   string `json:"device_id"`
	Tracking   bool   `json:"tracking"`
	PathLength int    `json:"path_length"`
}

type Summary struct {
	DeviceID    string  `json:"device_id"`
	PointCount  int     `json:"point_count"`
	DistanceM   float64 `json:"distance_m"`
	DurationSec int64   `json:"duration_sec"`
}

// BackgroundPayload is what a device sends for a batch of fixes collected
// while the app was in the background.
type BackgroundPayload struct {
	DeviceID  string            `json:"device_id"`
	Locations []location.Sample `json:"locations"`
}
