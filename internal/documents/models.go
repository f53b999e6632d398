package documents

import "time"

type Source string

const (
	Camera  Source = "camera"
	Gallery Source = "gallery"
)

// Document is a photo of a ticket or booking captured while planning a trip.
// It hangs off the planning session until the trip is created, then off the trip.
type Document struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id,omitempty"`
	TripID    *string   `json:"trip_id,omitempty"`
	URL       string    `json:"url"`
	Source    Source    `json:"source"`
	Kind      string    `json:"kind,omitempty"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadRequest struct {
	SessionID string `json:"session_id"`
	TripID    string `json:"trip_id"`
	FileName  string `json:"file_name"`
	Source    Source `json:"source"`
	Kind      string `json:"kind"`
}
