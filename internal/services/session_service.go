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

const defaultLanguage = "English"

type SessionService struct {
	db       *gorm.DB
	pageSize int
}

func NewSessionService(db *gorm.DB, pageSize int) *SessionService {
	return &SessionService{db: db, pageSize: pageSize}
}

func (s *SessionService) Create(hostID uuid.UUID, req *dto.SessionRequest) (*dto.SessionResponse, error) {
	if req.EndTime != nil && !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	session := models.Session{ID: uuid.New(), HostID: hostID}
	applySessionRequest(&session, req)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkParentEvent(tx, &session, hostID); err != nil {
			return err
		}
		if err := checkGroupsExist(tx, req.GroupIDs); err != nil {
			return err
		}

		_, err := slug.Assign(tx, &models.Session{}, slug.Base(session.Title, "session"), "", func(sp *gorm.DB, sl string) error {
			session.Slug = sl
			return sp.Create(&session).Error
		})
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		if err := replaceSessionLinks(tx, session.ID, req.GroupIDs, req.InvitedUserIDs); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", hostID).
			UpdateColumn("hosted_sessions", gorm.Expr("hosted_sessions + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("session created", "action", "session.create", "user_id", hostID.String(), "session_id", session.ID.String(), "slug", session.Slug)
	return s.Get(session.ID, &hostID)
}

func (s *SessionService) Update(sessionID, hostID uuid.UUID, req *dto.SessionRequest) (*dto.SessionResponse, error) {
	if req.EndTime != nil && !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := first(tx.Scopes(database.ForUpdate), &session, ErrSessionNotFound, "id = ?", sessionID); err != nil {
			return err
		}
		if session.HostID != hostID {
			return ErrNotHost
		}

		titleChanged := session.Title != strings.TrimSpace(req.Title)
		applySessionRequest(&session, req)
		if err := checkParentEvent(tx, &session, hostID); err != nil {
			return err
		}
		if err := checkGroupsExist(tx, req.GroupIDs); err != nil {
			return err
		}

		if titleChanged {
			_, err := slug.Assign(tx, &models.Session{}, slug.Base(session.Title, "session"), session.ID.String(), func(sp *gorm.DB, sl string) error {
				session.Slug = sl
				return sp.Save(&session).Error
			})
			if err != nil {
				return fmt.Errorf("failed to update session: %w", err)
			}
		} else if err := tx.Save(&session).Error; err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		return replaceSessionLinks(tx, session.ID, req.GroupIDs, req.InvitedUserIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(sessionID, &hostID)
}

// Cancel soft-deletes a session. Attendees and waitlist are kept for history.
func (s *SessionService) Cancel(sessionID, hostID uuid.UUID) error {
	var session models.Session
	if err := first(s.db, &session, ErrSessionNotFound, "id = ?", sessionID); err != nil {
		return err
	}
	if session.HostID != hostID {
		return ErrNotHost
	}
	if session.IsCancelled {
		return nil
	}
	if err := s.db.Model(&session).Update("is_cancelled", true).Error; err != nil {
		return fmt.Errorf("failed to cancel session: %w", err)
	}
	slog.Info("session cancelled", "action", "session.cancel", "user_id", hostID.String(), "session_id", sessionID.String())
	return nil
}

// Get returns the session if actor may view it. Sessions the actor cannot see
// are reported as missing.
func (s *SessionService) Get(sessionID uuid.UUID, actor *uuid.UUID) (*dto.SessionResponse, error) {
	return s.getWhere(actor, "id = ?", sessionID)
}

func (s *SessionService) GetBySlug(sl string, actor *uuid.UUID) (*dto.SessionResponse, error) {
	return s.getWhere(actor, "slug = ?", sl)
}

func (s *SessionService) getWhere(actor *uuid.UUID, query string, args ...interface{}) (*dto.SessionResponse, error) {
	var session models.Session
	if err := first(s.db, &session, ErrSessionNotFound, query, args...); err != nil {
		return nil, err
	}
	if err := s.requireVisible(s.db, &session, actor); err != nil {
		return nil, err
	}
	return s.detail(&session, actor)
}

func (s *SessionService) requireVisible(tx *gorm.DB, session *models.Session, actor *uuid.UUID) error {
	ok, err := access.CanView(sessionTarget(session, liveAssociations{tx, sessionLinks.groups, sessionLinks.invites}), actor)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SessionService) detail(session *models.Session, actor *uuid.UUID) (*dto.SessionResponse, error) {
	summaries, err := s.summarize([]models.Session{*session})
	if err != nil {
		return nil, err
	}
	resp := &dto.SessionResponse{SessionSummary: summaries[0]}

	if resp.WaitlistCount, err = countWhere(s.db, &models.SessionWaitlist{}, "session_id = ?", session.ID); err != nil {
		return nil, err
	}
	if resp.GroupIDs, err = pluckIDs(s.db, "session_groups", "group_id", "session_id = ?", session.ID); err != nil {
		return nil, err
	}

	if actor != nil {
		resp.IsUserHost = session.HostID == *actor
		if resp.IsUserAttending, err = exists(s.db, &models.SessionAttendee{}, "session_id = ? AND user_id = ?", session.ID, *actor); err != nil {
			return nil, err
		}
		if resp.IsUserOnWaitlist, err = exists(s.db, &models.SessionWaitlist{}, "session_id = ? AND user_id = ?", session.ID, *actor); err != nil {
			return nil, err
		}
		if session.EventID != nil {
			if resp.IsUserEventMember, err = exists(s.db, &models.EventAttendee{}, "event_id = ? AND user_id = ?", *session.EventID, *actor); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

// summarize attaches host names and seat counts to sessions, preserving order.
func (s *SessionService) summarize(sessions []models.Session) ([]dto.SessionSummary, error) {
	ids := make([]uuid.UUID, len(sessions))
	hosts := make([]uuid.UUID, len(sessions))
	for i, ss := range sessions {
		ids[i] = ss.ID
		hosts[i] = ss.HostID
	}
	counts, err := countBy(s.db, "session_attendees", "session_id", ids)
	if err != nil {
		return nil, err
	}
	users, err := usersByID(s.db, hosts)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionSummary, len(sessions))
	for i, ss := range sessions {
		current := counts[ss.ID]
		out[i] = dto.SessionSummary{
			Session:        ss,
			HostName:       users[ss.HostID].DisplayName,
			CurrentPlayers: current,
			AvailableSlots: sessionCapacity(&ss).Available(current),
		}
	}
	return out, nil
}

// Search lists upcoming, non-cancelled sessions the actor may see. Sessions
// hosted by someone who blacklisted the actor are hidden.
func (s *SessionService) Search(q dto.SessionSearchQuery, actor *uuid.UUID) (dto.Page[dto.SessionSummary], error) {
	query := s.db.Model(&models.Session{}).Scopes(database.Active)
	if q.From != nil {
		query = query.Scopes(database.StartingAfter("start_time", *q.From))
	} else {
		query = query.Scopes(database.StartingAfter("start_time", now()))
	}
	if q.To != nil {
		query = query.Where("start_time <= ?", *q.To)
	}
	if q.Location != "" {
		query = query.Where(likeWhere("location"), likePattern(q.Location))
	}
	if q.GameTag != "" {
		query = query.Where(likeWhere("game_tags"), likePattern(q.GameTag))
	}
	if q.NewbieFriendly != nil {
		query = query.Where("is_newbie_friendly = ?", *q.NewbieFriendly)
	}
	if q.Text != "" {
		p := likePattern(q.Text)
		query = query.Where(
			s.db.Where(likeWhere("title"), p).
				Or(likeWhere("primary_game"), p).
				Or(likeWhere("additional_games"), p).
				Or(likeWhere("additional_notes"), p),
		)
	}

	if actor == nil {
		query = query.Where("visibility = ?", models.SessionPublic)
	} else {
		blacklistedBy := s.db.Model(&models.Blacklist{}).Select("user_id").Where("blacklisted_user_id = ?", *actor)
		query = query.Where("host_id NOT IN (?)", blacklistedBy)
	}

	var sessions []models.Session
	if err := query.Order("start_time ASC").Find(&sessions).Error; err != nil {
		return dto.Page[dto.SessionSummary]{}, fmt.Errorf("failed to search sessions: %w", err)
	}

	sessions, err := s.visibleTo(sessions, actor)
	if err != nil {
		return dto.Page[dto.SessionSummary]{}, err
	}

	summaries, err := s.summarize(sessions)
	if err != nil {
		return dto.Page[dto.SessionSummary]{}, err
	}
	if q.AvailableOnly {
		open := summaries[:0]
		for _, ss := range summaries {
			if ss.AvailableSlots > 0 {
				open = append(open, ss)
			}
		}
		summaries = open
	}

	return dto.NewPage(summaries, q.Page, pageSize(q.PageSize, s.pageSize)), nil
}

func (s *SessionService) visibleTo(sessions []models.Session, actor *uuid.UUID) ([]models.Session, error) {
	if actor == nil {
		return filterVisible(sessions, nil, func(ss models.Session) access.Target {
			return sessionTarget(&ss, indexedAssociations{})
		})
	}
	ids := make([]uuid.UUID, len(sessions))
	for i, ss := range sessions {
		ids[i] = ss.ID
	}
	ix, err := loadIndex(s.db, sessionLinks, *actor, ids)
	if err != nil {
		return nil, err
	}
	return filterVisible(sessions, actor, func(ss models.Session) access.Target {
		return sessionTarget(&ss, ix)
	})
}

// ListHosted returns every session the user hosts, newest first, cancelled included.
func (s *SessionService) ListHosted(hostID uuid.UUID) ([]dto.SessionSummary, error) {
	var sessions []models.Session
	if err := s.db.Where("host_id = ?", hostID).Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list hosted sessions: %w", err)
	}
	return s.summarize(sessions)
}

func (s *SessionService) ListAttending(userID uuid.UUID) ([]dto.SessionSummary, error) {
	attending := s.db.Model(&models.SessionAttendee{}).Select("session_id").Where("user_id = ?", userID)
	var sessions []models.Session
	err := s.db.Scopes(database.Active).
		Where("id IN (?)", attending).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attending sessions: %w", err)
	}
	return s.summarize(sessions)
}

// ListForEvent returns the visible sessions of an event the actor may see.
func (s *SessionService) ListForEvent(eventID uuid.UUID, actor *uuid.UUID) ([]dto.SessionSummary, error) {
	var event models.Event
	if err := first(s.db, &event, ErrEventNotFound, "id = ?", eventID); err != nil {
		return nil, err
	}
	ok, err := access.CanView(eventTarget(&event, liveAssociations{s.db, eventLinks.groups, eventLinks.invites}), actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEventNotFound
	}

	var sessions []models.Session
	if err := s.db.Scopes(database.Active).Where("event_id = ?", eventID).Order("start_time ASC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list event sessions: %w", err)
	}
	if sessions, err = s.visibleTo(sessions, actor); err != nil {
		return nil, err
	}
	return s.summarize(sessions)
}

// ListForGroup returns active sessions linked to a group. Members only.
func (s *SessionService) ListForGroup(groupID, actor uuid.UUID) ([]dto.SessionSummary, error) {
	if err := requireMember(s.db, groupID, actor); err != nil {
		return nil, err
	}
	linked := s.db.Model(&models.SessionGroup{}).Select("session_id").Where("group_id = ?", groupID)
	var sessions []models.Session
	if err := s.db.Scopes(database.Active).Where("id IN (?)", linked).Order("start_time ASC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list group sessions: %w", err)
	}
	return s.summarize(sessions)
}

// Join admits the user, queues them on the waitlist, or rejects with a reason.
// The session row stays locked from the capacity read to the insert, so two
// concurrent joins cannot both take the last seat.
func (s *SessionService) Join(sessionID, userID uuid.UUID) (access.Outcome, error) {
	var outcome access.Outcome
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := first(tx.Scopes(database.ForUpdate), &session, ErrSessionNotFound, "id = ?", sessionID); err != nil {
			return err
		}

		facts, err := sessionJoinFacts(tx, &session, userID)
		if err != nil {
			return err
		}
		decision := access.Decide(facts)
		outcome = decision.Outcome

		switch decision.Outcome {
		case access.Admit:
			return tx.Create(&models.SessionAttendee{SessionID: sessionID, UserID: userID, JoinedAt: now()}).Error
		case access.Waitlist:
			return tx.Create(&models.SessionWaitlist{SessionID: sessionID, UserID: userID, JoinedAt: now()}).Error
		default:
			return decision.Reason
		}
	})
	if err != nil {
		return access.Reject, err
	}

	slog.Info("session join", "action", "session.join", "user_id", userID.String(), "session_id", sessionID.String(), "outcome", outcome.String())
	return outcome, nil
}

func sessionJoinFacts(tx *gorm.DB, session *models.Session, userID uuid.UUID) (access.JoinFacts, error) {
	f := access.JoinFacts{
		Cancelled:   session.IsCancelled,
		Capacity:    sessionCapacity(session),
		CanWaitlist: true,
	}
	var err error

	if session.HostID == userID {
		f.Member = true
	} else if f.Member, err = exists(tx, &models.SessionAttendee{}, "session_id = ? AND user_id = ?", session.ID, userID); err != nil {
		return f, err
	}
	if f.Waitlisted, err = exists(tx, &models.SessionWaitlist{}, "session_id = ? AND user_id = ?", session.ID, userID); err != nil {
		return f, err
	}
	if f.Blacklisted, err = exists(tx, &models.Blacklist{}, "user_id = ? AND blacklisted_user_id = ?", session.HostID, userID); err != nil {
		return f, err
	}
	if f.Visible, err = access.CanView(sessionTarget(session, liveAssociations{tx, sessionLinks.groups, sessionLinks.invites}), &userID); err != nil {
		return f, err
	}
	if session.EventID != nil {
		f.RequiresEventAttendance = true
		if f.EventAttendee, err = exists(tx, &models.EventAttendee{}, "event_id = ? AND user_id = ?", *session.EventID, userID); err != nil {
			return f, err
		}
	}
	if f.Current, err = countWhere(tx, &models.SessionAttendee{}, "session_id = ?", session.ID); err != nil {
		return f, err
	}
	return f, nil
}

func sessionCapacity(s *models.Session) access.Capacity {
	return access.Capacity{
		MaxPlayers:        s.MaxPlayers,
		ReservedSlots:     s.ReservedSlots,
		HostParticipating: s.IsHostParticipating,
	}
}

// Leave removes an attendee and promotes the earliest waitlisted user, if any.
// Promotion does not re-check blacklist or visibility: a queued user keeps
// their place even if those changed after they joined the waitlist.
func (s *SessionService) Leave(sessionID, userID uuid.UUID) (*uuid.UUID, error) {
	var promoted *uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := first(tx.Scopes(database.ForUpdate), &session, ErrSessionNotFound, "id = ?", sessionID); err != nil {
			return err
		}
		if session.HostID == userID {
			return ErrHostCannotLeave
		}

		result := tx.Where("session_id = ? AND user_id = ?", sessionID, userID).Delete(&models.SessionAttendee{})
		if result.Error != nil {
			return fmt.Errorf("failed to leave session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotAttending
		}

		var err error
		promoted, err = promoteNext(tx, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("session leave", "action", "session.leave", "user_id", userID.String(), "session_id", sessionID.String())
	if promoted != nil {
		slog.Info("waitlist promoted", "action", "session.promote", "user_id", promoted.String(), "session_id", sessionID.String())
	}
	return promoted, nil
}

// promoteNext moves the oldest waitlist entry of a session to the attendees.
func promoteNext(tx *gorm.DB, sessionID uuid.UUID) (*uuid.UUID, error) {
	var next models.SessionWaitlist
	err := tx.Where("session_id = ?", sessionID).Order("joined_at ASC").First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read waitlist: %w", err)
	}

	if err := tx.Where("session_id = ? AND user_id = ?", sessionID, next.UserID).Delete(&models.SessionWaitlist{}).Error; err != nil {
		return nil, fmt.Errorf("failed to pop waitlist: %w", err)
	}
	if err := tx.Create(&models.SessionAttendee{SessionID: sessionID, UserID: next.UserID, JoinedAt: now()}).Error; err != nil {
		return nil, fmt.Errorf("failed to promote waitlist entry: %w", err)
	}
	return &next.UserID, nil
}

func (s *SessionService) Attendees(sessionID uuid.UUID, actor *uuid.UUID) ([]dto.AttendeeResponse, error) {
	if err := s.visibleByID(sessionID, actor); err != nil {
		return nil, err
	}
	var rows []models.SessionAttendee
	if err := s.db.Preload("User").Where("session_id = ?", sessionID).Order("joined_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	out := make([]dto.AttendeeResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.AttendeeResponse{UserID: r.UserID, DisplayName: r.User.DisplayName, AvatarURL: r.User.AvatarURL, DidAttend: r.DidAttend, JoinedAt: r.JoinedAt}
	}
	return out, nil
}

// Waitlist lists queued users in promotion order.
func (s *SessionService) Waitlist(sessionID uuid.UUID, actor *uuid.UUID) ([]dto.AttendeeResponse, error) {
	if err := s.visibleByID(sessionID, actor); err != nil {
		return nil, err
	}
	var rows []models.SessionWaitlist
	if err := s.db.Preload("User").Where("session_id = ?", sessionID).Order("joined_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}
	out := make([]dto.AttendeeResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.AttendeeResponse{UserID: r.UserID, DisplayName: r.User.DisplayName, AvatarURL: r.User.AvatarURL, JoinedAt: r.JoinedAt}
	}
	return out, nil
}

func (s *SessionService) Groups(sessionID uuid.UUID, actor *uuid.UUID) ([]models.Group, error) {
	if err := s.visibleByID(sessionID, actor); err != nil {
		return nil, err
	}
	linked := s.db.Model(&models.SessionGroup{}).Select("group_id").Where("session_id = ?", sessionID)
	var groups []models.Group
	if err := s.db.Where("id IN (?)", linked).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list session groups: %w", err)
	}
	return groups, nil
}

func (s *SessionService) visibleByID(sessionID uuid.UUID, actor *uuid.UUID) error {
	var session models.Session
	if err := first(s.db, &session, ErrSessionNotFound, "id = ?", sessionID); err != nil {
		return err
	}
	return s.requireVisible(s.db, &session, actor)
}

// MarkAttendance records whether an attendee showed up and keeps the user's
// attended counter in step.
func (s *SessionService) MarkAttendance(sessionID, hostID, userID uuid.UUID, didAttend bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := first(tx, &session, ErrSessionNotFound, "id = ?", sessionID); err != nil {
			return err
		}
		if session.HostID != hostID {
			return ErrNotHost
		}

		var row models.SessionAttendee
		if err := first(tx, &row, ErrNotAttending, "session_id = ? AND user_id = ?", sessionID, userID); err != nil {
			return err
		}
		if row.DidAttend == didAttend {
			return nil
		}

		if err := tx.Model(&models.SessionAttendee{}).Where("session_id = ? AND user_id = ?", sessionID, userID).Update("did_attend", didAttend).Error; err != nil {
			return fmt.Errorf("failed to mark attendance: %w", err)
		}
		delta := gorm.Expr("attended_sessions + 1")
		if !didAttend {
			delta = gorm.Expr("attended_sessions - 1")
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("attended_sessions", delta).Error
	})
}

func applySessionRequest(session *models.Session, req *dto.SessionRequest) {
	session.Title = strings.TrimSpace(req.Title)
	session.ImageURL = req.ImageURL
	session.SessionType = req.SessionType
	session.EventID = nil
	if req.SessionType == models.SessionForEvent {
		session.EventID = req.EventID
	}
	session.Location = req.Location
	session.LocationType = req.LocationType
	session.StartTime = req.StartTime.UTC()
	session.EndTime = nil
	if req.EndTime != nil {
		end := req.EndTime.UTC()
		session.EndTime = &end
	}
	session.CostPerPerson = req.CostPerPerson
	session.CostNotes = req.CostNotes
	session.PrimaryGame = req.PrimaryGame
	session.AdditionalGames = req.AdditionalGames
	session.MinPlayers = req.MinPlayers
	session.MaxPlayers = req.MaxPlayers
	session.ReservedSlots = req.ReservedSlots
	session.IsHostParticipating = req.IsHostParticipating
	session.GameTags = req.GameTags
	session.IsNewbieFriendly = req.IsNewbieFriendly
	session.Language = req.Language
	if session.Language == "" {
		session.Language = defaultLanguage
	}
	session.AdditionalNotes = req.AdditionalNotes
	session.Visibility = req.Visibility
}

// checkParentEvent requires event sessions to point at a live event the host organizes.
func checkParentEvent(tx *gorm.DB, session *models.Session, hostID uuid.UUID) error {
	if session.SessionType != models.SessionForEvent {
		return nil
	}
	if session.EventID == nil {
		return ErrEventRequired
	}
	var event models.Event
	if err := first(tx, &event, ErrEventNotFound, "id = ?", *session.EventID); err != nil {
		return err
	}
	if event.OrganizerID != hostID {
		return ErrNotOrganizer
	}
	if event.IsCancelled {
		return ErrEventCancelled
	}
	return nil
}

func checkGroupsExist(tx *gorm.DB, ids []uuid.UUID) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	n, err := countWhere(tx, &models.Group{}, "id IN ?", ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return ErrGroupNotFound
	}
	return nil
}

func replaceSessionLinks(tx *gorm.DB, sessionID uuid.UUID, groupIDs, invitedIDs []uuid.UUID) error {
	if err := tx.Where("session_id = ?", sessionID).Delete(&models.SessionGroup{}).Error; err != nil {
		return fmt.Errorf("failed to reset session groups: %w", err)
	}
	if err := tx.Where("session_id = ?", sessionID).Delete(&models.SessionInvite{}).Error; err != nil {
		return fmt.Errorf("failed to reset session invites: %w", err)
	}

	groupIDs = uniqueIDs(groupIDs)
	if len(groupIDs) > 0 {
		rows := make([]models.SessionGroup, len(groupIDs))
		for i, g := range groupIDs {
			rows[i] = models.SessionGroup{SessionID: sessionID, GroupID: g}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to link session groups: %w", err)
		}
	}

	invitedIDs = uniqueIDs(invitedIDs)
	if len(invitedIDs) > 0 {
		if _, err := requireUsers(tx, invitedIDs); err != nil {
			return err
		}
		rows := make([]models.SessionInvite, len(invitedIDs))
		for i, u := range invitedIDs {
			rows[i] = models.SessionInvite{SessionID: sessionID, UserID: u}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to invite users: %w", err)
		}
	}
	return nil
}

// requireUsers loads all ids, failing with ErrUserNotFound if any is unknown.
func requireUsers(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	users, err := usersByID(tx, ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(uniqueIDs(ids)) {
		return nil, ErrUserNotFound
	}
	return users, nil
}
