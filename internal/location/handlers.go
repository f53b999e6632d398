package location

import (
	"time"

	"backend-yatra/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, reg *Registry, authMiddleware fiber.Handler) {
	r.Put("/:device/permissions", authMiddleware, func(c *fiber.Ctx) error {
		var req PermissionState
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		perms := reg.Feed(c.Params("device")).Permissions()
		perms.Set(req)
		return c.JSON(perms.State())
	})

	r.Get("/:device/permissions", authMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(readFeed(reg, c.Params("device")).Permissions().State())
	})

	r.Post("/:device/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var req Sample
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
			return fiber.NewError(fiber.StatusBadRequest, "lat/lng out of range")
		}
		if req.Timestamp == 0 {
			req.Timestamp = time.Now().UnixMilli()
		}
		reg.Feed(c.Params("device")).Publish(req)
		return c.Status(fiber.StatusAccepted).JSON(req)
	})

	r.Get("/:device/current", authMiddleware, func(c *fiber.Ctx) error {
		sample, err := readFeed(reg, c.Params("device")).CurrentPosition(c.UserContext())
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(sample)
	})
}

// readFeed falls back to a blank feed for unknown devices so lookups do not
// register them.
func readFeed(reg *Registry, deviceID string) *Feed {
	if f, ok := reg.Lookup(deviceID); ok {
		return f
	}
	return NewFeed(NewPermissions())
}
