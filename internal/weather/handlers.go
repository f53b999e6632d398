package weather

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/geocode"
)

// RegisterRoutes serves the forecast for a coordinate. When a geocoder is
// given the answer also carries the address of the coordinate.
func RegisterRoutes(r fiber.Router, client *Client, geocoder *geocode.Client) {
	r.Get("/", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng are required")
		}

		forecast, err := client.Forecast(c.UserContext(), lat, lng)
		if err != nil {
			return apperr.Respond(c, err)
		}
		report := Report{Forecast: forecast}
		if geocoder != nil {
			addr := geocoder.Describe(c.UserContext(), lat, lng)
			report.Address = &addr
		}
		return c.JSON(report)
	})
}
