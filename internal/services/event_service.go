package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/access"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"github.com/playbojio/playbojio-api/internal/slug"
	"gorm.io/gorm"
)

type EventService struct {
	db       *gorm.DB
	pageSize int
}

func NewEventService(db *gorm.DB, pageSize int) *EventService {
	return &EventService{db: db, pageSize: pageSize}
}

// Create stores the event and seats the organizer as its first attendee.
func (s *EventService) Create(organizerID uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidTimeRange
	}

	event := models.Event{ID: uuid.New(), OrganizerID: organizerID}
	applyEventRequest(&event, req)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkGroupsExist(tx, req.GroupIDs); err != nil {
			return err
		}
		_, err := slug.Assign(tx, &models.Event{}, slug.Base(event.Name, "event"), "", func(sp *gorm.DB, sl string) error {
			event.Slug = sl
			return sp.Create(&event).Error
		})
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		if err := replaceEventLinks(tx, event.ID, req.GroupIDs, req.InvitedUserIDs); err != nil {
			return err
		}
		return tx.Create(&models.EventAttendee{EventID: event.ID, UserID: organizerID, JoinedAt: now()}).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("event created", "action", "event.create", "user_id", organizerID.String(), "event_id", event.ID.String(), "slug", event.Slug)
	return s.Get(event.ID, &organizerID)
}

func (s *EventService) Update(eventID, organizerID uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidTimeRange
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := first(tx.Scopes(database.ForUpdate), &event, ErrEventNotFound, "id = ?", eventID); err != nil {
			return err
		}
		if event.OrganizerID != organizerID {
			return ErrNotOrganizer
		}
		if err := checkGroupsExist(tx, req.GroupIDs); err != nil {
			return err
		}

		nameChanged := event.Name != strings.TrimSpace(req.Name)
		applyEventRequest(&event, req)

		if nameChanged {
			_, err := slug.Assign(tx, &models.Event{}, slug.Base(event.Name, "event"), event.ID.String(), func(sp *gorm.DB, sl string) error {
				event.Slug = sl
				return sp.Save(&event).Error
			})
			if err != nil {
				return fmt.Errorf("failed to update event: %w", err)
			}
		} else if err := tx.Save(&event).Error; err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}

		return replaceEventLinks(tx, event.ID, req.GroupIDs, req.InvitedUserIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(eventID, &organizerID)
}

func (s *EventService) Cancel(eventID, organizerID uuid.UUID) error {
	var event models.Event
	if err := first(s.db, &event, ErrEventNotFound, "id = ?", eventID); err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return ErrNotOrganizer
	}
	if event.IsCancelled {
		return nil
	}
	if err := s.db.Model(&event).Update("is_cancelled", true).Error; err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}
	slog.Info("event cancelled", "action", "event.cancel", "user_id", organizerID.String(), "event_id", eventID.String())
	return nil
}

func (s *EventService) Get(eventID uuid.UUID, actor *uuid.UUID) (*dto.EventResponse, error) {
	return s.getWhere(actor, "id = ?", eventID)
}

func (s *EventService) GetBySlug(sl string, actor *uuid.UUID) (*dto.EventResponse, error) {
	return s.getWhere(actor, "slug = ?", sl)
}

func (s *EventService) getWhere(actor *uuid.UUID, query string, args ...interface{}) (*dto.EventResponse, error) {
	var event models.Event
	if err := first(s.db, &event, ErrEventNotFound, query, args...); err != nil {
		return nil, err
	}
	if err := requireEventVisible(s.db, &event, actor); err != nil {
		return nil, err
	}

	summaries, err := s.summarize([]models.Event{event})
	if err != nil {
		return nil, err
	}
	resp := &dto.EventResponse{EventSummary: summaries[0]}
	if resp.GroupIDs, err = pluckIDs(s.db, "event_groups", "group_id", "event_id = ?", event.ID); err != nil {
		return nil, err
	}
	if actor != nil {
		resp.IsUserOrganizer = event.OrganizerID == *actor
		if resp.IsUserAttending, err = exists(s.db, &models.EventAttendee{}, "event_id = ? AND user_id = ?", event.ID, *actor); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func requireEventVisible(tx *gorm.DB, event *models.Event, actor *uuid.UUID) error {
	ok, err := access.CanView(eventTarget(event, liveAssociations{tx, eventLinks.groups, eventLinks.invites}), actor)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEventNotFound
	}
	return nil
}

func (s *EventService) summarize(events []models.Event) ([]dto.EventSummary, error) {
	ids := make([]uuid.UUID, len(events))
	organizers := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
		organizers[i] = e.OrganizerID
	}
	attendees, err := countBy(s.db, "event_attendees", "event_id", ids)
	if err != nil {
		return nil, err
	}
	sessions, err := countBy(s.db.Scopes(database.Active), "sessions", "event_id", ids)
	if err != nil {
		return nil, err
	}
	users, err := usersByID(s.db, organizers)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EventSummary, len(events))
	for i, e := range events {
		out[i] = dto.EventSummary{
			Event:         e,
			OrganizerName: users[e.OrganizerID].DisplayName,
			AttendeeCount: attendees[e.ID],
			SessionCount:  sessions[e.ID],
		}
		if e.MaxParticipants != nil {
			left := eventCapacity(&e).Available(attendees[e.ID])
			out[i].AvailableSpaces = &left
		}
	}
	return out, nil
}

// Search lists non-cancelled events the actor may see.
func (s *EventService) Search(q dto.EventSearchQuery, actor *uuid.UUID) (dto.Page[dto.EventSummary], error) {
	query := s.db.Model(&models.Event{}).Scopes(database.Active)
	if q.UpcomingOnly {
		query = query.Scopes(database.StartingAfter("end_date", now()))
	}
	if q.From != nil {
		query = query.Scopes(database.StartingAfter("start_date", *q.From))
	}
	if q.To != nil {
		query = query.Where("start_date <= ?", *q.To)
	}
	if q.Location != "" {
		query = query.Where(likeWhere("location"), likePattern(q.Location))
	}
	if q.EventType != "" {
		query = query.Where(likeWhere("event_type"), likePattern(q.EventType))
	}
	if q.Text != "" {
		p := likePattern(q.Text)
		query = query.Where(s.db.Where(likeWhere("name"), p).Or(likeWhere("description"), p))
	}
	if actor == nil {
		query = query.Where("visibility = ?", models.EventPublic)
	}

	var events []models.Event
	if err := query.Order("start_date ASC").Find(&events).Error; err != nil {
		return dto.Page[dto.EventSummary]{}, fmt.Errorf("failed to search events: %w", err)
	}
	events, err := s.visibleTo(events, actor)
	if err != nil {
		return dto.Page[dto.EventSummary]{}, err
	}

	p := dto.NewPage(events, q.Page, pageSize(q.PageSize, s.pageSize))
	items, err := s.summarize(p.Items)
	if err != nil {
		return dto.Page[dto.EventSummary]{}, err
	}
	return dto.Page[dto.EventSummary]{Items: items, Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages}, nil
}

func (s *EventService) visibleTo(events []models.Event, actor *uuid.UUID) ([]models.Event, error) {
	if actor == nil {
		return filterVisible(events, nil, func(e models.Event) access.Target {
			return eventTarget(&e, indexedAssociations{})
		})
	}
	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	ix, err := loadIndex(s.db, eventLinks, *actor, ids)
	if err != nil {
		return nil, err
	}
	return filterVisible(events, actor, func(e models.Event) access.Target {
		return eventTarget(&e, ix)
	})
}

func (s *EventService) ListOrganized(organizerID uuid.UUID) ([]dto.EventSummary, error) {
	var events []models.Event
	if err := s.db.Where("organizer_id = ?", organizerID).Order("start_date DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list organized events: %w", err)
	}
	return s.summarize(events)
}

func (s *EventService) ListAttending(userID uuid.UUID) ([]dto.EventSummary, error) {
	attending := s.db.Model(&models.EventAttendee{}).Select("event_id").Where("user_id = ?", userID)
	var events []models.Event
	if err := s.db.Scopes(database.Active).Where("id IN (?)", attending).Order("start_date ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list attending events: %w", err)
	}
	return s.summarize(events)
}

// ListForGroup returns active events linked to a group. Members only.
func (s *EventService) ListForGroup(groupID, actor uuid.UUID) ([]dto.EventSummary, error) {
	if err := requireMember(s.db, groupID, actor); err != nil {
		return nil, err
	}
	linked := s.db.Model(&models.EventGroup{}).Select("event_id").Where("group_id = ?", groupID)
	var events []models.Event
	if err := s.db.Scopes(database.Active).Where("id IN (?)", linked).Order("start_date ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list group events: %w", err)
	}
	return s.summarize(events)
}

// Join seats the user or rejects. Events never waitlist: a full event is a
// hard rejection.
func (s *EventService) Join(eventID, userID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := first(tx.Scopes(database.ForUpdate), &event, ErrEventNotFound, "id = ?", eventID); err != nil {
			return err
		}

		f := access.JoinFacts{Cancelled: event.IsCancelled, Capacity: eventCapacity(&event)}
		var err error
		if f.Member, err = exists(tx, &models.EventAttendee{}, "event_id = ? AND user_id = ?", eventID, userID); err != nil {
			return err
		}
		if f.Blacklisted, err = exists(tx, &models.EventBlacklist{}, "event_id = ? AND blacklisted_user_id = ?", eventID, userID); err != nil {
			return err
		}
		if f.Visible, err = access.CanView(eventTarget(&event, liveAssociations{tx, eventLinks.groups, eventLinks.invites}), &userID); err != nil {
			return err
		}
		if f.Current, err = countWhere(tx, &models.EventAttendee{}, "event_id = ?", eventID); err != nil {
			return err
		}

		if d := access.Decide(f); d.Outcome != access.Admit {
			return d.Reason
		}
		return tx.Create(&models.EventAttendee{EventID: eventID, UserID: userID, JoinedAt: now()}).Error
	})
	if err != nil {
		return err
	}
	slog.Info("event join", "action", "event.join", "user_id", userID.String(), "event_id", eventID.String())
	return nil
}

func eventCapacity(e *models.Event) access.Capacity {
	if e.MaxParticipants == nil {
		return access.Capacity{Unlimited: true}
	}
	return access.Capacity{MaxPlayers: *e.MaxParticipants}
}

func (s *EventService) Leave(eventID, userID uuid.UUID) error {
	var event models.Event
	if err := first(s.db, &event, ErrEventNotFound, "id = ?", eventID); err != nil {
		return err
	}
	if event.OrganizerID == userID {
		return ErrOrganizerCannotLeave
	}
	result := s.db.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&models.EventAttendee{})
	if result.Error != nil {
		return fmt.Errorf("failed to leave event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotAttending
	}
	return nil
}

// Attendees lists who joined, for the organizer only.
func (s *EventService) Attendees(eventID, organizerID uuid.UUID) ([]dto.AttendeeResponse, error) {
	if _, err := s.organizedEvent(s.db, eventID, organizerID); err != nil {
		return nil, err
	}
	var rows []models.EventAttendee
	if err := s.db.Preload("User").Where("event_id = ?", eventID).Order("joined_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list event attendees: %w", err)
	}
	out := make([]dto.AttendeeResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.AttendeeResponse{UserID: r.UserID, DisplayName: r.User.DisplayName, AvatarURL: r.User.AvatarURL, JoinedAt: r.JoinedAt}
	}
	return out, nil
}

func (s *EventService) Groups(eventID uuid.UUID, actor *uuid.UUID) ([]models.Group, error) {
	var event models.Event
	if err := first(s.db, &event, ErrEventNotFound, "id = ?", eventID); err != nil {
		return nil, err
	}
	if err := requireEventVisible(s.db, &event, actor); err != nil {
		return nil, err
	}
	linked := s.db.Model(&models.EventGroup{}).Select("group_id").Where("event_id = ?", eventID)
	var groups []models.Group
	if err := s.db.Where("id IN (?)", linked).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list event groups: %w", err)
	}
	return groups, nil
}

func (s *EventService) organizedEvent(tx *gorm.DB, eventID, organizerID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := first(tx, &event, ErrEventNotFound, "id = ?", eventID); err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotOrganizer
	}
	return &event, nil
}

func (s *EventService) Blacklist(eventID, organizerID uuid.UUID) ([]dto.BlacklistEntryResponse, error) {
	if _, err := s.organizedEvent(s.db, eventID, organizerID); err != nil {
		return nil, err
	}
	var rows []models.EventBlacklist
	if err := s.db.Preload("BlacklistedUser").Where("event_id = ?", eventID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list event blacklist: %w", err)
	}
	out := make([]dto.BlacklistEntryResponse, len(rows))
	for i, r := range rows {
		by := r.BlacklistedByUserID
		out[i] = dto.BlacklistEntryResponse{
			UserID: r.BlacklistedUserID, DisplayName: r.BlacklistedUser.DisplayName, AvatarURL: r.BlacklistedUser.AvatarURL,
			BlacklistedByUserID: &by, Reason: r.Reason, CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

// AddToBlacklist bars a user from the event and drops their attendance in the
// same transaction.
func (s *EventService) AddToBlacklist(eventID, organizerID, targetID uuid.UUID, reason *string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		event, err := s.organizedEvent(tx.Scopes(database.ForUpdate), eventID, organizerID)
		if err != nil {
			return err
		}
		if targetID == event.OrganizerID {
			return ErrCannotBlacklistOwner
		}
		if _, err := requireUser(tx, targetID); err != nil {
			return err
		}

		entry := models.EventBlacklist{
			ID:                  uuid.New(),
			EventID:             eventID,
			BlacklistedUserID:   targetID,
			BlacklistedByUserID: organizerID,
			Reason:              trimReason(reason),
		}
		if err := insertBlacklistEntry(tx, &entry, "event_id = ? AND blacklisted_user_id = ?", eventID, targetID); err != nil {
			return err
		}
		return tx.Where("event_id = ? AND user_id = ?", eventID, targetID).Delete(&models.EventAttendee{}).Error
	})
	if err != nil {
		return err
	}
	slog.Info("event blacklist add", "action", "event.blacklist", "user_id", organizerID.String(), "event_id", eventID.String(), "target_id", targetID.String())
	return nil
}

func (s *EventService) RemoveFromBlacklist(eventID, organizerID, targetID uuid.UUID) error {
	if _, err := s.organizedEvent(s.db, eventID, organizerID); err != nil {
		return err
	}
	return deleteBlacklistEntry(s.db, &models.EventBlacklist{}, "event_id = ? AND blacklisted_user_id = ?", eventID, targetID)
}

func applyEventRequest(event *models.Event, req *dto.EventRequest) {
	event.Name = strings.TrimSpace(req.Name)
	event.ImageURL = req.ImageURL
	event.Description = req.Description
	event.StartDate = req.StartDate.UTC()
	event.EndDate = req.EndDate.UTC()
	event.Location = req.Location
	event.MapLink = req.MapLink
	event.MaxParticipants = req.MaxParticipants
	event.Price = req.Price
	event.DummyAttendeesCount = req.DummyAttendeesCount
	event.DummyAttendeesDescription = req.DummyAttendeesDescription
	event.EventType = req.EventType
	if event.EventType == "" {
		event.EventType = models.DefaultEventType
	}
	event.Visibility = req.Visibility
}

func replaceEventLinks(tx *gorm.DB, eventID uuid.UUID, groupIDs, invitedIDs []uuid.UUID) error {
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventGroup{}).Error; err != nil {
		return fmt.Errorf("failed to reset event groups: %w", err)
	}
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventInvite{}).Error; err != nil {
		return fmt.Errorf("failed to reset event invites: %w", err)
	}

	groupIDs = uniqueIDs(groupIDs)
	if len(groupIDs) > 0 {
		rows := make([]models.EventGroup, len(groupIDs))
		for i, g := range groupIDs {
			rows[i] = models.EventGroup{EventID: eventID, GroupID: g}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to link event groups: %w", err)
		}
	}

	invitedIDs = uniqueIDs(invitedIDs)
	if len(invitedIDs) > 0 {
		if _, err := requireUsers(tx, invitedIDs); err != nil {
			return err
		}
		rows := make([]models.EventInvite, len(invitedIDs))
		for i, u := range invitedIDs {
			rows[i] = models.EventInvite{EventID: eventID, UserID: u}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to invite users: %w", err)
		}
	}
	return nil
}

// insertBlacklistEntry inserts entry unless a row matching query exists. The
// unique index catches a concurrent duplicate that slips past the check.
func insertBlacklistEntry(tx *gorm.DB, entry interface{}, query string, args ...interface{}) error {
	dup, err := exists(tx, entry, query, args...)
	if err != nil {
		return err
	}
	if dup {
		return ErrAlreadyBlacklisted
	}
	err = tx.Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyBlacklisted
	}
	if err != nil {
		return fmt.Errorf("failed to blacklist user: %w", err)
	}
	return nil
}

func deleteBlacklistEntry(tx *gorm.DB, model interface{}, query string, args ...interface{}) error {
	result := tx.Where(query, args...).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to remove blacklist entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBlacklistNotFound
	}
	return nil
}

func trimReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	r := strings.TrimSpace(*reason)
	if r == "" {
		return nil
	}
	return &r
}
