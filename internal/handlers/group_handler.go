package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/identity"
	"github.com/playbojio/playbojio-api/internal/services"
)

type GroupHandler struct {
	groups      *services.GroupService
	requests    *services.GroupJoinRequestService
	invitations *services.GroupInvitationService
	sessions    *services.SessionService
	events      *services.EventService
}

func NewGroupHandler(
	groups *services.GroupService,
	requests *services.GroupJoinRequestService,
	invitations *services.GroupInvitationService,
	sessions *services.SessionService,
	events *services.EventService,
) *GroupHandler {
	return &GroupHandler{groups: groups, requests: requests, invitations: invitations, sessions: sessions, events: events}
}

// withGroup resolves the caller and the :id group before running fn.
func withGroup(c *fiber.Ctx, fn func(userID, groupID uuid.UUID) error) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}
	return fn(userID, groupID)
}

func (h *GroupHandler) ListPublic(c *fiber.Ctx) error {
	list, err := h.groups.ListPublic(c.Query("q"), identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *GroupHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.groups.ListMine(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *GroupHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}
	resp, err := h.groups.Get(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *GroupHandler) Members(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}
	list, err := h.groups.Members(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.GroupRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := h.groups.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *GroupHandler) Update(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		var req dto.GroupRequest
		if err := bind(c, &req); err != nil {
			return badRequest(c, err.Error())
		}
		resp, err := h.groups.Update(groupID, userID, &req)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(resp)
	})
}

func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		if err := h.groups.Delete(groupID, userID); err != nil {
			return fail(c, err)
		}
		return message(c, "Group deleted")
	})
}

func (h *GroupHandler) Join(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		if err := h.groups.Join(groupID, userID); err != nil {
			return fail(c, err)
		}
		return c.JSON(dto.JoinResponse{Status: "joined"})
	})
}

func (h *GroupHandler) Leave(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		if err := h.groups.Leave(groupID, userID); err != nil {
			return fail(c, err)
		}
		return message(c, "Left group")
	})
}

func (h *GroupHandler) RemoveMember(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		targetID, ok := paramID(c, "userId")
		if !ok {
			return badRequest(c, "Invalid user ID")
		}
		if err := h.groups.RemoveMember(groupID, userID, targetID); err != nil {
			return fail(c, err)
		}
		return message(c, "Member removed")
	})
}

func (h *GroupHandler) PromoteToAdmin(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		targetID, ok := paramID(c, "userId")
		if !ok {
			return badRequest(c, "Invalid user ID")
		}
		if err := h.groups.PromoteToAdmin(groupID, userID, targetID); err != nil {
			return fail(c, err)
		}
		return message(c, "Member promoted to admin")
	})
}

func (h *GroupHandler) Sessions(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		list, err := h.sessions.ListForGroup(groupID, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})
}

func (h *GroupHandler) Events(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		list, err := h.events.ListForGroup(groupID, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})
}

func (h *GroupHandler) Blacklist(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		list, err := h.groups.Blacklist(groupID, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})
}

func (h *GroupHandler) AddToBlacklist(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		targetID, ok := paramID(c, "userId")
		if !ok {
			return badRequest(c, "Invalid user ID")
		}
		var req dto.BlacklistRequest
		if len(c.Body()) > 0 {
			if err := bind(c, &req); err != nil {
				return badRequest(c, err.Error())
			}
		}
		if err := h.groups.AddToBlacklist(groupID, userID, targetID, req.Reason); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "User blacklisted from group"})
	})
}

func (h *GroupHandler) RemoveFromBlacklist(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		targetID, ok := paramID(c, "userId")
		if !ok {
			return badRequest(c, "Invalid user ID")
		}
		if err := h.groups.RemoveFromBlacklist(groupID, userID, targetID); err != nil {
			return fail(c, err)
		}
		return message(c, "User removed from group blacklist")
	})
}

func (h *GroupHandler) RequestToJoin(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		resp, err := h.requests.Create(groupID, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})
}

func (h *GroupHandler) JoinRequests(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		list, err := h.requests.ListForGroup(groupID, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})
}

func (h *GroupHandler) MyJoinRequests(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.requests.ListMine(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *GroupHandler) ApproveRequest(c *fiber.Ctx) error {
	return h.answerRequest(c, h.requests.Approve, "Join request approved")
}

func (h *GroupHandler) RejectRequest(c *fiber.Ctx) error {
	return h.answerRequest(c, h.requests.Reject, "Join request rejected")
}

func (h *GroupHandler) answerRequest(c *fiber.Ctx, answer func(requestID, actor uuid.UUID) error, done string) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return badRequest(c, "Invalid request ID")
	}
	if err := answer(requestID, userID); err != nil {
		return fail(c, err)
	}
	return message(c, done)
}

func (h *GroupHandler) Invite(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		var req dto.InviteRequest
		if err := bind(c, &req); err != nil {
			return badRequest(c, err.Error())
		}
		resp, err := h.invitations.Invite(groupID, userID, req.UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})
}

func (h *GroupHandler) Invitations(c *fiber.Ctx) error {
	return withGroup(c, func(userID, groupID uuid.UUID) error {
		list, err := h.invitations.ListForGroup(groupID, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(list)
	})
}

func (h *GroupHandler) MyInvitations(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.invitations.ListMine(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *GroupHandler) AcceptInvitation(c *fiber.Ctx) error {
	return h.answerInvitation(c, h.invitations.Accept, "Invitation accepted")
}

func (h *GroupHandler) DeclineInvitation(c *fiber.Ctx) error {
	return h.answerInvitation(c, h.invitations.Decline, "Invitation declined")
}

func (h *GroupHandler) CancelInvitation(c *fiber.Ctx) error {
	return h.answerInvitation(c, h.invitations.Cancel, "Invitation cancelled")
}

func (h *GroupHandler) answerInvitation(c *fiber.Ctx, answer func(invitationID, actor uuid.UUID) error, done string) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	invitationID, ok := paramID(c, "invitationId")
	if !ok {
		return badRequest(c, "Invalid invitation ID")
	}
	if err := answer(invitationID, userID); err != nil {
		return fail(c, err)
	}
	return message(c, done)
}
