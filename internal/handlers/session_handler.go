package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/playbojio/playbojio-api/internal/access"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/identity"
	"github.com/playbojio/playbojio-api/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Search(c *fiber.Ctx) error {
	q := dto.SessionSearchQuery{
		Location:      c.Query("location"),
		GameTag:       c.Query("game_tag"),
		Text:          c.Query("q"),
		AvailableOnly: c.QueryBool("available_only"),
		Page:          queryInt(c, "page"),
		PageSize:      queryInt(c, "page_size"),
	}
	var ok bool
	if q.From, ok = queryTime(c, "from"); !ok {
		return badRequest(c, "from must be an RFC 3339 timestamp")
	}
	if q.To, ok = queryTime(c, "to"); !ok {
		return badRequest(c, "to must be an RFC 3339 timestamp")
	}
	if c.Query("newbie_friendly") != "" {
		b := c.QueryBool("newbie_friendly")
		q.NewbieFriendly = &b
	}

	page, err := h.sessions.Search(q, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	resp, err := h.sessions.Get(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *SessionHandler) GetBySlug(c *fiber.Ctx) error {
	resp, err := h.sessions.GetBySlug(c.Params("slug"), identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *SessionHandler) ListForEvent(c *fiber.Ctx) error {
	id, ok := paramID(c, "eventId")
	if !ok {
		return badRequest(c, "Invalid event ID")
	}
	list, err := h.sessions.ListForEvent(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *SessionHandler) Attendees(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	list, err := h.sessions.Attendees(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *SessionHandler) Waitlist(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	list, err := h.sessions.Waitlist(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *SessionHandler) Groups(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	list, err := h.sessions.Groups(id, identity.OptionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.SessionRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := h.sessions.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *SessionHandler) Update(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	var req dto.SessionRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := h.sessions.Update(id, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	if err := h.sessions.Cancel(id, userID); err != nil {
		return fail(c, err)
	}
	return message(c, "Session cancelled")
}

func (h *SessionHandler) ListHosted(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.sessions.ListHosted(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *SessionHandler) ListAttending(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.sessions.ListAttending(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// Join answers 200 with status "joined" or "waitlisted".
func (h *SessionHandler) Join(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	outcome, err := h.sessions.Join(id, userID)
	if err != nil {
		return fail(c, err)
	}
	status := "joined"
	if outcome == access.Waitlist {
		status = "waitlisted"
	}
	return c.JSON(dto.JoinResponse{Status: status})
}

func (h *SessionHandler) Leave(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	promoted, err := h.sessions.Leave(id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.LeaveResponse{Message: "Left session", PromotedID: promoted})
}

func (h *SessionHandler) MarkAttendance(c *fiber.Ctx) error {
	userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid session ID")
	}
	attendeeID, ok := paramID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	var req dto.AttendanceRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.sessions.MarkAttendance(id, userID, attendeeID, req.DidAttend); err != nil {
		return fail(c, err)
	}
	return message(c, "Attendance updated")
}
