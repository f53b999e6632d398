package trip

import (
	"fmt"
	"strings"
	"time"

	"backend-yatra/internal/apperr"
)

const submitMessage = "Please fill all the required details"

// ResizePassengers grows or shrinks the passenger list to NoOfPassengers.
// A zero count leaves the list alone.
func (f *Form) ResizePassengers() {
	n := f.NoOfPassengers
	if n <= 0 {
		return
	}
	for len(f.Passengers) < n {
		f.Passengers = append(f.Passengers, Passenger{})
	}
	f.Passengers = f.Passengers[:n]
}

// Validate runs the required-field checks for the form's kind. The returned
// error is always a *apperr.ValidationError.
func Validate(f Form) error {
	verr := apperr.NewValidationError()

	if blank(f.StartingPoint) || f.StartingPoint == locationPlaceholder {
		verr.Add("starting_point", "Please select starting location")
	}

	switch f.Kind {
	case OneWay:
		checkDestination(verr, f.Destination)
		checkDate(verr, "departure_date", f.DepartureDate, "Please select departure date")
		if blank(f.ModeOfTransport) {
			verr.Add("mode_of_transport", "Please select mode of transport")
		}
	case RoundTrip:
		checkDestination(verr, f.Destination)
		checkDate(verr, "departure_date", f.DepartureDate, "Please select departure date")
		checkDate(verr, "return_date", f.ReturnDate, "Please select return date")
	case MultiCity:
		if len(f.Cities) == 0 {
			verr.Add("cities", "Please add at least one city")
		}
		for i, c := range f.Cities {
			if blank(c.To) {
				verr.Add(fmt.Sprintf("cities[%d].to", i), "Please enter destination")
			}
			checkDate(verr, fmt.Sprintf("cities[%d].arrival_date", i), c.ArrivalDate, "Please select arrival date")
			checkDate(verr, fmt.Sprintf("cities[%d].departure_date", i), c.DepartureDate, "Please select departure date")
		}
		checkDate(verr, "return_date", f.ReturnDate, "Please select return date")
	default:
		verr.Add("kind", "kind must be one_way, round_trip or multi_city")
	}

	if blank(f.Purpose) {
		verr.Add("purpose", "Please select purpose of trip")
	}

	for i, p := range f.Passengers {
		if blank(p.Name) {
			verr.Add(fmt.Sprintf("passengers[%d].name", i), "Please enter name")
		}
		if blank(p.UserID) {
			verr.Add(fmt.Sprintf("passengers[%d].user_id", i), "Please enter user id")
		}
	}

	if verr.Empty() {
		return nil
	}
	verr.Add("submit", submitMessage)
	return verr
}

func checkDestination(verr *apperr.ValidationError, dest string) {
	if blank(dest) || dest == destinationPlaceholder {
		verr.Add("destination", "Please select destination")
	}
}

func checkDate(verr *apperr.ValidationError, field, value, missing string) {
	if blank(value) {
		verr.Add(field, missing)
		return
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(value)); err != nil {
		verr.Add(field, "Invalid date, expected YYYY-MM-DD")
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
