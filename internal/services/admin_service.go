package services

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"github.com/playbojio/playbojio-api/internal/slug"
	"gorm.io/gorm"
)

// AdminService holds moderation operations that bypass ownership checks.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) DeleteSession(sessionID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := first(tx.Scopes(database.ForUpdate), &session, ErrSessionNotFound, "id = ?", sessionID); err != nil {
			return err
		}
		return deleteSessions(tx, []uuid.UUID{sessionID})
	})
	if err != nil {
		return err
	}
	slog.Info("session deleted by admin", "action", "admin.session.delete", "session_id", sessionID.String())
	return nil
}

// DeleteEvent removes the event together with the sessions it contains.
func (s *AdminService) DeleteEvent(eventID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := first(tx.Scopes(database.ForUpdate), &event, ErrEventNotFound, "id = ?", eventID); err != nil {
			return err
		}
		return deleteEvents(tx, []uuid.UUID{eventID})
	})
	if err != nil {
		return err
	}
	slog.Info("event deleted by admin", "action", "admin.event.delete", "event_id", eventID.String())
	return nil
}

func (s *AdminService) DeleteGroup(groupID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := first(tx.Scopes(database.ForUpdate), &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
			return err
		}
		return deleteGroups(tx, []uuid.UUID{groupID})
	})
	if err != nil {
		return err
	}
	slog.Info("group deleted by admin", "action", "admin.group.delete", "group_id", groupID.String())
	return nil
}

// RegenerateSlugs assigns a slug to every session and event that has none,
// such as rows imported without one. Rows that already have a slug keep it.
func (s *AdminService) RegenerateSlugs() (*dto.RegenerateSlugsResponse, error) {
	resp := &dto.RegenerateSlugsResponse{Sessions: []dto.SlugChange{}, Events: []dto.SlugChange{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sessions []models.Session
		if err := tx.Where("slug = ?", "").Order("created_at").Find(&sessions).Error; err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		for i := range sessions {
			session := &sessions[i]
			sl, err := slug.Assign(tx, &models.Session{}, slug.Base(session.Title, "session"), session.ID.String(), func(sp *gorm.DB, sl string) error {
				return sp.Model(&models.Session{}).Where("id = ?", session.ID).Update("slug", sl).Error
			})
			if err != nil {
				return fmt.Errorf("failed to assign session slug: %w", err)
			}
			resp.Sessions = append(resp.Sessions, dto.SlugChange{ID: session.ID, Title: session.Title, Slug: sl})
		}

		var events []models.Event
		if err := tx.Where("slug = ?", "").Order("created_at").Find(&events).Error; err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		for i := range events {
			event := &events[i]
			sl, err := slug.Assign(tx, &models.Event{}, slug.Base(event.Name, "event"), event.ID.String(), func(sp *gorm.DB, sl string) error {
				return sp.Model(&models.Event{}).Where("id = ?", event.ID).Update("slug", sl).Error
			})
			if err != nil {
				return fmt.Errorf("failed to assign event slug: %w", err)
			}
			resp.Events = append(resp.Events, dto.SlugChange{ID: event.ID, Title: event.Name, Slug: sl})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.SessionsUpdated = len(resp.Sessions)
	resp.EventsUpdated = len(resp.Events)
	slog.Info("slugs regenerated", "action", "admin.slugs.regenerate", "sessions", resp.SessionsUpdated, "events", resp.EventsUpdated)
	return resp, nil
}
