package geocode

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
)

func RegisterRoutes(r fiber.Router, client *Client) {
	r.Get("/reverse", func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng are required")
		}
		return c.JSON(client.Describe(c.UserContext(), lat, lng))
	})

	r.Get("/search", func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q is required")
		}
		places, err := client.Search(c.UserContext(), q, c.QueryInt("limit", 5))
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(fiber.Map{"results": places})
	})
}
