package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/apperr"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/identity"
)

// fail maps a service error to its HTTP status. Unexpected errors are logged
// and reported as 500 without detail.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		status = fiber.StatusNotFound
	case apperr.ErrForbidden:
		status = fiber.StatusForbidden
	case apperr.ErrConflict, apperr.ErrInvalidState:
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: "Internal server error"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(dto.MessageResponse{Message: msg})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// paramID parses a UUID path parameter.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

var errInvalidBody = errors.New("invalid request body")

// bind parses and validates a JSON body into req. The returned error is safe
// to show to the client.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errInvalidBody
	}
	return dto.Validate(req)
}

func queryInt(c *fiber.Ctx, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// caller returns the authenticated user id.
func caller(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := identity.GetUserID(c)
	return id, err == nil
}
