package trip

import "time"

type Kind string

const (
	OneWay    Kind = "one_way"
	RoundTrip Kind = "round_trip"
	MultiCity Kind = "multi_city"
)

const (
	Heading = "Upcoming Trip"

	// Unset pickers post their placeholder text.
	locationPlaceholder    = "Select Location"
	destinationPlaceholder = "Select Destination"

	dateLayout = "2006-01-02"
)

type Passenger struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

type City struct {
	To            string `json:"to"`
	ArrivalDate   string `json:"arrival_date"`
	DepartureDate string `json:"departure_date"`
}

// Form is what the planning screens submit. SessionID ties documents captured
// while the form was open to the trip it creates.
type Form struct {
	Kind            Kind        `json:"kind"`
	SessionID       string      `json:"session_id"`
	StartingPoint   string      `json:"starting_point"`
	Destination     string      `json:"destination"`
	DepartureDate   string      `json:"departure_date"`
	ReturnDate      string      `json:"return_date"`
	Cities          []City      `json:"cities"`
	Purpose         string      `json:"purpose"`
	ModeOfTransport string      `json:"mode_of_transport"`
	NoOfPassengers  int         `json:"no_of_passengers"`
	Passengers      []Passenger `json:"passengers"`
}

type Trip struct {
	ID              string      `json:"id"`
	Kind            Kind        `json:"kind"`
	Heading         string      `json:"heading"`
	FromAddress     string      `json:"from_address"`
	ToAddress       string      `json:"to_address"`
	DepartureDate   string      `json:"departure_date,omitempty"`
	ReturnDate      string      `json:"return_date,omitempty"`
	Cities          []City      `json:"cities,omitempty"`
	Purpose         string      `json:"purpose"`
	ModeOfTransport string      `json:"mode_of_transport,omitempty"`
	Passengers      []Passenger `json:"passengers"`
	CreatedAt       time.Time   `json:"created_at"`
}
