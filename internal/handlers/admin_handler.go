package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/playbojio/playbojio-api/internal/services"
)

// AdminHandler serves moderation routes. Callers are vetted by
// middleware.AdminRequired before reaching it.
type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) DeleteSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	if err := h.admin.DeleteSession(id); err != nil {
		return fail(c, err)
	}
	return message(c, "Session deleted")
}

func (h *AdminHandler) DeleteEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	if err := h.admin.DeleteEvent(id); err != nil {
		return fail(c, err)
	}
	return message(c, "Event deleted")
}

func (h *AdminHandler) DeleteGroup(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}
	if err := h.admin.DeleteGroup(id); err != nil {
		return fail(c, err)
	}
	return message(c, "Group deleted")
}

func (h *AdminHandler) RegenerateSlugs(c *fiber.Ctx) error {
	resp, err := h.admin.RegenerateSlugs()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
