package tracking

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/jobs"
	"backend-yatra/internal/location"
)

func RegisterRoutes(r fiber.Router, svc *Service, registry *jobs.Registry, authMiddleware fiber.Handler) {
	g := r.Group("/:device", authMiddleware)

	g.Post("/start", func(c *fiber.Ctx) error {
		status, err := svc.Start(c.UserContext(), c.Params("device"))
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(status)
	})

	g.Post("/stop", func(c *fiber.Ctx) error {
		return c.JSON(svc.Stop(c.UserContext(), c.Params("device")))
	})

	g.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(svc.Status(c.UserContext(), c.Params("device")))
	})

	g.Get("/path", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"path": svc.Path(c.UserContext(), c.Params("device"))})
	})

	g.Delete("/path", func(c *fiber.Ctx) error {
		svc.ClearPath(c.UserContext(), c.Params("device"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	g.Get("/summary", func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary(c.UserContext(), c.Params("device")))
	})

	g.Post("/background", func(c *fiber.Ctx) error {
		var req struct {
			Locations []location.Sample `json:"locations"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		now := time.Now().UnixMilli()
		for i := range req.Locations {
			if req.Locations[i].Timestamp == 0 {
				req.Locations[i].Timestamp = now
			}
		}
		payload, err := json.Marshal(BackgroundPayload{DeviceID: c.Params("device"), Locations: req.Locations})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := registry.Dispatch(c.UserContext(), BackgroundJob, payload); err != nil {
			return apperr.Respond(c, err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	})
}
