// Package identity reads the caller out of the verified JWT that the auth
// middleware leaves in Fiber locals.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKey is the locals key the JWT middleware stores the parsed token under.
const TokenKey = "user"

var ErrNoIdentity = errors.New("no authenticated user in context")

// Claims is the subset of token claims the API uses.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   string
}

// FromContext extracts the claims of the verified token.
func FromContext(c *fiber.Ctx) (Claims, error) {
	token, ok := c.Locals(TokenKey).(*jwt.Token)
	if !ok || token == nil {
		return Claims{}, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Claims{}, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, err
	}

	out := Claims{UserID: id}
	out.Email, _ = claims["email"].(string)
	out.Name, _ = claims["name"].(string)
	out.Role, _ = claims["role"].(string)
	return out, nil
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := FromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// OptionalUserID returns nil for anonymous callers.
func OptionalUserID(c *fiber.Ctx) *uuid.UUID {
	id, err := GetUserID(c)
	if err != nil {
		return nil
	}
	return &id
}
