package sos

import (
	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/auth"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/national", func(c *fiber.Ctx) error {
		return c.JSON(National())
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID := auth.UserID(c)
		return c.JSON(svc.Directory(c.UserContext(), userID))
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		userID := auth.UserID(c)
		var req ContactRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		contact, err := svc.AddPersonal(c.UserContext(), userID, req)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(contact)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID := auth.UserID(c)
		if err := svc.DeletePersonal(c.UserContext(), userID, c.Params("id")); err != nil {
			return apperr.Respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
