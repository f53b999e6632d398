package facility

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
)

// GeocodeFunc resolves a free-form address to a coordinate.
type GeocodeFunc func(ctx context.Context, address string) (Point, error)

func RegisterRoutes(r fiber.Router, svc *Service, geocode GeocodeFunc, authMiddleware fiber.Handler) {
	r.Get("/route", authMiddleware, routeHandler(svc, geocode))
	r.Get("/:device", authMiddleware, currentHandler(svc))
	r.Post("/:device/fetch", authMiddleware, fetchHandler(svc))
}

func currentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"facilities": svc.Facilities(c.Params("device"))})
	}
}

type fetchRequest struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Force bool    `json:"force"`
}

func fetchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req fetchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
			return fiber.NewError(fiber.StatusBadRequest, "coordinate out of range")
		}
		res, err := svc.Fetch(c.UserContext(), c.Params("device"), req.Lat, req.Lng, req.Force)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(res)
	}
}

// routeHandler accepts either from_lat/from_lng or from_address (and the
// same for to_). Addresses need a geocoder.
func routeHandler(svc *Service, geocode GeocodeFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var points []Point
		for _, end := range []string{"from", "to"} {
			p, ok, err := endpoint(c, end, geocode)
			if err != nil {
				return err
			}
			if ok {
				points = append(points, p)
			}
		}
		if len(points) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "from or to is required")
		}
		return c.JSON(fiber.Map{"facilities": svc.AroundRoute(c.UserContext(), points...)})
	}
}

func endpoint(c *fiber.Ctx, prefix string, geocode GeocodeFunc) (Point, bool, error) {
	latStr, lngStr := c.Query(prefix+"_lat"), c.Query(prefix+"_lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			return Point{}, false, fiber.NewError(fiber.StatusBadRequest, "invalid "+prefix+" coordinate")
		}
		return Point{Lat: lat, Lng: lng}, true, nil
	}
	address := c.Query(prefix + "_address")
	if address == "" {
		return Point{}, false, nil
	}
	if geocode == nil {
		return Point{}, false, fiber.NewError(fiber.StatusBadRequest, prefix+" coordinate is required")
	}
	p, err := geocode(c.UserContext(), address)
	if err != nil {
		// unresolved addresses are skipped like failed lookups
		return Point{}, false, nil
	}
	return p, true, nil
}
