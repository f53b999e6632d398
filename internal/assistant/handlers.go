package assistant

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/apperr"
)

type chatRequest struct {
	Message string `json:"message"`
}

type translateRequest struct {
	Text string `json:"text"`
}

func RegisterRoutes(r fiber.Router) {
	r.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if strings.TrimSpace(req.Message) == "" {
			verr := apperr.NewValidationError()
			verr.Add("message", "message is required")
			return apperr.Respond(c, verr)
		}
		return c.JSON(fiber.Map{"reply": Reply(req.Message)})
	})

	r.Post("/translate", func(c *fiber.Ctx) error {
		var req translateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if strings.TrimSpace(req.Text) == "" {
			verr := apperr.NewValidationError()
			verr.Add("text", "text is required")
			return apperr.Respond(c, verr)
		}
		t, found := Translate(req.Text)
		return c.JSON(fiber.Map{"translation": t, "found": found})
	})
}
