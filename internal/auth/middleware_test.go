package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func TestJWTMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	svc := NewService("secret", nil)

	// missing token
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	// wrong secret
	other, _ := NewService("other", nil).signToken("user-1", accessTokenTTL)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for foreign token")
	}

	// valid token, lowercase scheme
	token, _ := svc.signToken("user-1", accessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}
	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	if string(buf[:n]) != "user-1" {
		t.Fatalf("expected user id in locals, got %q", buf[:n])
	}
}

func TestJWTMiddlewareRejectsOtherAlgorithms(t *testing.T) {
	app := fiber.New()
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for HS512 token")
	}
}

func TestUserIDWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(UserID(c)) })
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.ContentLength != 0 {
		t.Fatalf("expected empty user id")
	}
}
