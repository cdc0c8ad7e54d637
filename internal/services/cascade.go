package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

// step is one delete in a cascade. Steps run in order inside the caller's
// transaction and the first failure aborts the rest.
type step struct {
	what  string
	model interface{}
	query string
	args  []interface{}
}

func runSteps(tx *gorm.DB, steps []step) error {
	for _, s := range steps {
		if err := tx.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.what, err)
		}
	}
	return nil
}

// deleteSessions removes sessions and every row hanging off them.
func deleteSessions(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return runSteps(tx, []step{
		{"session attendees", &models.SessionAttendee{}, "session_id IN ?", []interface{}{ids}},
		{"session waitlist", &models.SessionWaitlist{}, "session_id IN ?", []interface{}{ids}},
		{"session groups", &models.SessionGroup{}, "session_id IN ?", []interface{}{ids}},
		{"session invites", &models.SessionInvite{}, "session_id IN ?", []interface{}{ids}},
		{"sessions", &models.Session{}, "id IN ?", []interface{}{ids}},
	})
}

// deleteEvents removes events, their sessions and every row hanging off them.
func deleteEvents(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	sessionIDs, err := pluckIDs(tx, "sessions", "id", "event_id IN ?", ids)
	if err != nil {
		return err
	}
	if err := deleteSessions(tx, sessionIDs); err != nil {
		return err
	}
	return runSteps(tx, []step{
		{"event attendees", &models.EventAttendee{}, "event_id IN ?", []interface{}{ids}},
		{"event groups", &models.EventGroup{}, "event_id IN ?", []interface{}{ids}},
		{"event invites", &models.EventInvite{}, "event_id IN ?", []interface{}{ids}},
		{"event blacklist", &models.EventBlacklist{}, "event_id IN ?", []interface{}{ids}},
		{"events", &models.Event{}, "id IN ?", []interface{}{ids}},
	})
}

// deleteGroups removes groups with their roster, requests, invitations,
// blacklist and links to sessions and events.
func deleteGroups(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return runSteps(tx, []step{
		{"group members", &models.GroupMember{}, "group_id IN ?", []interface{}{ids}},
		{"group join requests", &models.GroupJoinRequest{}, "group_id IN ?", []interface{}{ids}},
		{"group invitations", &models.GroupInvitation{}, "group_id IN ?", []interface{}{ids}},
		{"group blacklist", &models.GroupBlacklist{}, "group_id IN ?", []interface{}{ids}},
		{"session groups", &models.SessionGroup{}, "group_id IN ?", []interface{}{ids}},
		{"event groups", &models.EventGroup{}, "group_id IN ?", []interface{}{ids}},
		{"groups", &models.Group{}, "id IN ?", []interface{}{ids}},
	})
}
