package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/identity"
	"github.com/playbojio/playbojio-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	resp, err := h.users.Me(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := h.users.UpdateMe(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// DeleteMe removes the caller's account and everything attached to it.
func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.users.DeleteAccount(userID); err != nil {
		return fail(c, err)
	}
	return message(c, "Account deleted")
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	resp, err := h.users.Get(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	list, err := h.users.Search(c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// AdminList pages through all users.
func (h *UserHandler) AdminList(c *fiber.Ctx) error {
	page, err := h.users.List(queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *UserHandler) AdminDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	if err := h.users.DeleteAccount(id); err != nil {
		return fail(c, err)
	}
	return message(c, "User deleted")
}
