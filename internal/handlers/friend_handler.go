package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/services"
)

type FriendHandler struct {
	friends *services.FriendService
}

func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

func (h *FriendHandler) List(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.friends.List(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *FriendHandler) ListSent(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.friends.ListSent(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *FriendHandler) ListReceived(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.friends.ListReceived(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *FriendHandler) Send(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	receiverID, ok := paramID(c, "receiverId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	resp, err := h.friends.Send(userID, receiverID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *FriendHandler) Accept(c *fiber.Ctx) error {
	return h.onRequest(c, h.friends.Accept, "Friend request accepted")
}

func (h *FriendHandler) Reject(c *fiber.Ctx) error {
	return h.onRequest(c, h.friends.Reject, "Friend request rejected")
}

func (h *FriendHandler) Cancel(c *fiber.Ctx) error {
	return h.onRequest(c, h.friends.CancelRequest, "Friend request cancelled")
}

func (h *FriendHandler) onRequest(c *fiber.Ctx, act func(requestID, userID uuid.UUID) error, done string) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return badRequest(c, "Invalid request ID")
	}
	if err := act(requestID, userID); err != nil {
		return fail(c, err)
	}
	return message(c, done)
}

func (h *FriendHandler) Remove(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	friendID, ok := paramID(c, "friendId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	if err := h.friends.Remove(userID, friendID); err != nil {
		return fail(c, err)
	}
	return message(c, "Friend removed")
}
