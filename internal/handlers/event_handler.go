package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/identity"
	"github.com/playbojio/playbojio-api/internal/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) Search(c *fiber.Ctx) error {
	q := dto.EventSearchQuery{
		Location:     c.Query("location"),
		EventType:    c.Query("event_type"),
		Text:         c.Query("q"),
		UpcomingOnly: c.QueryBool("upcoming_only", true),
		Page:         queryInt(c, "page"),
		PageSize:     queryInt(c, "page_size"),
	}
	var ok bool
	if q.From, ok = queryTime(c, "from"); !ok {
		return badRequest(c, "from must be an RFC 3339 timestamp")
	}
	if q.To, ok = queryTime(c, "to"); !ok {
		return badRequest(c, "to must be an RFC 3339 timestamp")
	}

	page, err := h.events.Search(q, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	resp, err := h.events.Get(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *EventHandler) GetBySlug(c *fiber.Ctx) error {
	resp, err := h.events.GetBySlug(c.Params("slug"), identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *EventHandler) Groups(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	list, err := h.events.Groups(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.EventRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := h.events.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	var req dto.EventRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := h.events.Update(id, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *EventHandler) Cancel(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	if err := h.events.Cancel(id, userID); err != nil {
		return fail(c, err)
	}
	return message(c, "Event cancelled")
}

func (h *EventHandler) ListOrganized(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.events.ListOrganized(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *EventHandler) ListAttending(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.events.ListAttending(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *EventHandler) Attendees(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	list, err := h.events.Attendees(id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *EventHandler) Join(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	if err := h.events.Join(id, userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.JoinResponse{Status: "joined"})
}

func (h *EventHandler) Leave(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	if err := h.events.Leave(id, userID); err != nil {
		return fail(c, err)
	}
	return message(c, "Left event")
}

func (h *EventHandler) Blacklist(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	list, err := h.events.Blacklist(id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *EventHandler) AddToBlacklist(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
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
	if err := h.events.AddToBlacklist(id, userID, targetID, req.Reason); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "User blacklisted from event"})
}

func (h *EventHandler) RemoveFromBlacklist(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	targetID, ok := paramID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	if err := h.events.RemoveFromBlacklist(id, userID, targetID); err != nil {
		return fail(c, err)
	}
	return message(c, "User removed from event blacklist")
}
