package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/playbojio/playbojio-api/internal/config"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/identity"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

// AdminRequired admits the X-Admin-Token holder, callers listed in
// ADMIN_EMAILS or ADMIN_USER_IDS, and users whose stored role is admin.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if c.Get("X-Admin-Token") == cfg.AdminToken {
				return c.Next()
			}
		}

		claims, err := identity.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, claims.Email) || contains(adminUserIDs, claims.UserID.String()) {
			return c.Next()
		}

		// the stored role wins over the token's role claim
		var user models.User
		if err := db.Select("role").First(&user, "id = ?", claims.UserID).Error; err == nil && user.Role == models.RoleAdmin {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
