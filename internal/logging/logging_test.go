package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info("dropped")
	require.Zero(t, buf.Len())
	log.Warn("kept")
	require.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Generator: func() string { return "test-req-id" }}))
	app.Use(RequestLogger(New(&buf, "info")))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, "/health", entry["path"])
	require.EqualValues(t, http.StatusOK, entry["status"])
	require.Equal(t, "test-req-id", entry["request_id"])
	require.NotNil(t, entry["duration_ms"])
}

func TestRequestLoggerErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestLogger(New(&buf, "info")))
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "nope") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.EqualValues(t, http.StatusNotFound, entry["status"])
}
