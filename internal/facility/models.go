package facility

type Type string

const (
	Hospital Type = "hospital"
	Clinic   Type = "clinic"
	Hotel    Type = "hotel"
)

type Facility struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Type Type    `json:"type"`
}

// Outcome says which step of the fetch policy decided a call.
type Outcome string

const (
	OutcomeInFlight    Outcome = "in_flight"
	OutcomeNearby      Outcome = "nearby"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeCacheHit    Outcome = "cache_hit"
	OutcomeFetched     Outcome = "fetched"
	OutcomeFailed      Outcome = "failed"
)

// Changed reports whether the call replaced the current facility set.
func (o Outcome) Changed() bool {
	return o == OutcomeCacheHit || o == OutcomeFetched
}

type Result struct {
	Outcome    Outcome    `json:"outcome"`
	Facilities []Facility `json:"facilities"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
