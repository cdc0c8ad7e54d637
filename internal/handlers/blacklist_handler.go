package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/services"
)

type BlacklistHandler struct {
	blacklist *services.BlacklistService
}

func NewBlacklistHandler(blacklist *services.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{blacklist: blacklist}
}

func (h *BlacklistHandler) List(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.blacklist.List(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *BlacklistHandler) Add(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	targetID, ok := paramID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	if err := h.blacklist.Add(userID, targetID); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "User blacklisted"})
}

func (h *BlacklistHandler) Remove(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	targetID, ok := paramID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	if err := h.blacklist.Remove(userID, targetID); err != nil {
		return fail(c, err)
	}
	return message(c, "User removed from blacklist")
}
