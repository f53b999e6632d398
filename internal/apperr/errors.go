// Package apperr holds the error taxonomy shared by every service and the
// mapping from those errors to HTTP responses.
package apperr

import (
	"errors"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrPermissionDenied is returned when a device has not granted the
	// capability an operation needs. It is surfaced once and never retried.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnavailable means the requested data does not exist yet, e.g. no
	// position fix has been received.
	ErrUnavailable = errors.New("unavailable")

	// ErrNetwork wraps failures talking to an upstream HTTP backend.
	ErrNetwork = errors.New("network error")

	// ErrTimeout wraps upstream calls that exceeded their deadline.
	ErrTimeout = errors.New("timeout")

	// ErrStorage wraps key-value or database failures. Readers treat it as
	// "no data", writers log and drop it.
	ErrStorage = errors.New("storage error")

	ErrNotFound = errors.New("not found")
)

// ValidationError carries one message per offending field. Keys use the
// JSON field names, with indexes for array members (passengers[0].name).
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation error: " + strings.Join(keys, ", ")
}

// Status maps an error onto the HTTP status a handler should answer with.
func Status(err error) int {
	var verr *ValidationError
	var ferr *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &ferr):
		return ferr.Code
	case errors.Is(err, ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, ErrNetwork):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as a JSON body with the mapped status.
func Respond(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}
	var verr *ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return c.Status(Status(err)).JSON(body)
}
