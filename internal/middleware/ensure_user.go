package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/identity"
	"github.com/playbojio/playbojio-api/internal/models"
)

// Provisioner creates the local profile for a token subject on first sight.
type Provisioner interface {
	Provision(id uuid.UUID, email, name string) (*models.User, error)
}

// EnsureUser makes sure every authenticated caller has a profile row. Anonymous
// requests pass untouched.
func EnsureUser(p Provisioner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := identity.FromContext(c)
		if errors.Is(err, identity.ErrNoIdentity) {
			return c.Next()
		}
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid token subject",
			})
		}

		if _, err := p.Provision(claims.UserID, claims.Email, claims.Name); err != nil {
			slog.Error("user provisioning failed", "user_id", claims.UserID.String(), "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		c.Locals("user_id", claims.UserID.String())
		return c.Next()
	}
}
