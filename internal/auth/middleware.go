package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDLocal = "user_id"

// JWTMiddleware rejects requests without a valid access token and exposes the
// token's user to handlers through UserID.
func JWTMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	keyFunc := func(_ *jwt.Token) (interface{}, error) { return key, nil }

	return func(c *fiber.Ctx) error {
		raw := parseBearer(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		token, err := parseMiddlewareClaimsFn(raw, &Claims{}, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid || claims.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid")
		}

		c.Locals(userIDLocal, claims.UserID)
		return c.Next()
	}
}

// UserID is the authenticated user, or "" on routes without the middleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDLocal).(string)
	return id
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

func parseBearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
