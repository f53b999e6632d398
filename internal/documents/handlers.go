package documents

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/auth"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		userID := auth.UserID(c)
		var req UploadRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		doc, err := svc.Upload(c.UserContext(), userID, req)
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			return apperr.Respond(c, err)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID := auth.UserID(c)
		var (
			docs []Document
			err  error
		)
		switch {
		case c.Query("trip_id") != "":
			docs, err = svc.ListByTrip(c.UserContext(), userID, c.Query("trip_id"))
		case c.Query("session_id") != "":
			docs, err = svc.ListBySession(c.UserContext(), userID, c.Query("session_id"))
		default:
			return fiber.NewError(fiber.StatusBadRequest, "trip_id or session_id required")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(docs)
	})
}
