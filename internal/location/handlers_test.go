package location

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newLocationApp(reg *Registry) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/location"), reg, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestLocationHandlersFlow(t *testing.T) {
	reg := NewRegistry()
	app := newLocationApp(reg)

	req := httptest.NewRequest(http.MethodGet, "/location/phone-1/current", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden before permission grant")
	}

	body, _ := json.Marshal(PermissionState{Foreground: true})
	req = httptest.NewRequest(http.MethodPut, "/location/phone-1/permissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("grant status: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/location/phone-1/current", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected unavailable before first fix")
	}

	fix, _ := json.Marshal(Sample{Lat: 28.6139, Lng: 77.2090})
	req = httptest.NewRequest(http.MethodPost, "/location/phone-1/fixes", bytes.NewReader(fix))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusAccepted {
		t.Fatalf("publish status: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/location/phone-1/current", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("current status: %v", err)
	}
	var got Sample
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Timestamp == 0 {
		t.Fatalf("expected server-assigned timestamp")
	}
}

func TestLocationHandlersRejectsBadFix(t *testing.T) {
	app := newLocationApp(NewRegistry())

	req := httptest.NewRequest(http.MethodPost, "/location/phone-1/fixes", bytes.NewReader([]byte(`{"lat":120,"lng":0}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}

	req = httptest.NewRequest(http.MethodPost, "/location/phone-1/fixes", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for malformed body")
	}
}

func TestLocationHandlersRequireAuth(t *testing.T) {
	reg := NewRegistry()
	app := fiber.New()
	RegisterRoutes(app.Group("/location"), reg, func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		return c.Next()
	})

	for _, path := range []string{"/location/phone-1/current", "/location/phone-1/permissions"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected unauthorized", path)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/location/phone-1/current", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden for unknown device")
	}
}

func TestLocationReadsDoNotRegisterDevices(t *testing.T) {
	reg := NewRegistry()
	app := newLocationApp(reg)

	for _, path := range []string{"/location/ghost/current", "/location/ghost/permissions"} {
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil)); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
	}
	if reg.Len() != 0 {
		t.Fatalf("expected reads to leave the registry empty, got %d", reg.Len())
	}
}
