package trip

import (
	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/auth"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/validate", func(c *fiber.Ctx) error {
		var form Form
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		form.ResizePassengers()
		if err := Validate(form); err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(fiber.Map{"valid": true})
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var form Form
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		t, err := svc.Create(c.UserContext(), auth.UserID(c), form)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(svc.List(c.UserContext(), auth.UserID(c)))
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		t, err := svc.Get(c.UserContext(), auth.UserID(c), c.Params("id"))
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(t)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), auth.UserID(c), c.Params("id")); err != nil {
			return apperr.Respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
