package tracking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"backend-yatra/internal/location"
)

func TestTrackingHandlers(t *testing.T) {
	f := newFixture(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/tracking"), f.svc, f.registry, func(c *fiber.Ctx) error { return c.Next() })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/tracking/phone-1/start", nil))
	if err != nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden without permission: %v", err)
	}

	f.feeds.Feed("phone-1").Permissions().Set(location.PermissionState{Foreground: true, Background: true})
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/tracking/phone-1/start", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("start status: %v", err)
	}
	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil || !status.Tracking {
		t.Fatalf("decode status: %+v %v", status, err)
	}

	body, _ := json.Marshal(map[string]any{"locations": []location.Sample{{Lat: 28.6, Lng: 77.2}}})
	req := httptest.NewRequest(http.MethodPost, "/tracking/phone-1/background", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusAccepted {
		t.Fatalf("background status: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/tracking/phone-1/path", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("path status: %v", err)
	}
	var got struct {
		Path []location.Sample `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil || len(got.Path) != 1 {
		t.Fatalf("unexpected path %+v %v", got, err)
	}
	if got.Path[0].Timestamp == 0 {
		t.Fatalf("expected server-assigned timestamp")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/tracking/phone-1/summary", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/tracking/phone-1/path", nil))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear status %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodPost, "/tracking/phone-1/stop", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop status %d", resp.StatusCode)
	}
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/tracking/phone-1/status", nil))
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil || status.Tracking || status.PathLength != 0 {
		t.Fatalf("unexpected final status %+v", status)
	}
}

func TestTrackingHandlersBadRequest(t *testing.T) {
	f := newFixture(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/tracking"), f.svc, f.registry, func(c *fiber.Ctx) error { return c.Next() })

	req := httptest.NewRequest(http.MethodPost, "/tracking/phone-1/background", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}
