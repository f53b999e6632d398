package geocode

import (
	"fmt"
	"strings"
)

type Address struct {
	Full      string `json:"full"`
	FirstLine string `json:"first_line"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Format builds "first line, city, postcode, country" from p. The first line
// is the place name (unless it just repeats the city), street and subregion.
func Format(p Place, lat, lng float64) Address {
	var firstParts []string
	if p.Name != "" && p.Name != p.City {
		firstParts = append(firstParts, p.Name)
	}
	if p.Street != "" {
		firstParts = append(firstParts, p.Street)
	}
	if p.Subregion != "" {
		firstParts = append(firstParts, p.Subregion)
	}
	firstLine := strings.Join(firstParts, ", ")

	city := p.City
	if city == "" {
		city = p.Region
	}

	var parts []string
	for _, s := range []string{firstLine, city, p.PostalCode, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return Fallback(lat, lng)
	}

	a := Address{Full: strings.Join(parts, ", "), FirstLine: firstLine, City: city, Country: p.Country}
	if a.FirstLine == "" {
		a.FirstLine = city
	}
	return a
}

func Fallback(lat, lng float64) Address {
	s := fmt.Sprintf("%.5f, %.5f", lat, lng)
	return Address{Full: s, FirstLine: s}
}
