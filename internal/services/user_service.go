package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

const userSearchLimit = 20

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Provision returns the local profile for a token subject, creating it on
// first sight. New profiles are public and take their display name from the
// token, or the local part of the email when the token carries none.
func (s *UserService) Provision(id uuid.UUID, email, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	if name == "" {
		name = "Player"
	}

	attrs := models.User{
		ID:              id,
		Email:           email,
		DisplayName:     name,
		IsProfilePublic: true,
		Role:            models.RoleUser,
	}
	var user models.User
	err := s.db.Where("id = ?", id).Attrs(attrs).FirstOrCreate(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent first request created the row
		err = s.db.First(&user, "id = ?", id).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Me(userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := requireUser(s.db, userID)
	if err != nil {
		return nil, err
	}
	resp := profile(user, true)
	return &resp, nil
}

func (s *UserService) UpdateMe(userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := requireUser(s.db, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if n := strings.TrimSpace(*req.DisplayName); n != "" {
			user.DisplayName = n
		}
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.PreferredAreas != nil {
		user.PreferredAreas = req.PreferredAreas
	}
	if req.GamePreferences != nil {
		user.GamePreferences = req.GamePreferences
	}
	if req.WillingToHost != nil {
		user.WillingToHost = *req.WillingToHost
	}
	if req.IsProfilePublic != nil {
		user.IsProfilePublic = *req.IsProfilePublic
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	resp := profile(user, true)
	return &resp, nil
}

// Get returns another user's profile. Email is shown only on public profiles
// or to the user themself.
func (s *UserService) Get(userID uuid.UUID, actor *uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := requireUser(s.db, userID)
	if err != nil {
		return nil, err
	}
	self := actor != nil && *actor == userID
	resp := profile(user, self || user.IsProfilePublic)
	return &resp, nil
}

// Search matches display names case-insensitively.
func (s *UserService) Search(q string) ([]dto.UserSummary, error) {
	if len([]rune(strings.TrimSpace(q))) < 2 {
		return nil, ErrQueryTooShort
	}
	var users []models.User
	err := s.db.Where(likeWhere("display_name"), likePattern(q)).
		Order("display_name ASC").
		Limit(userSearchLimit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	out := make([]dto.UserSummary, len(users))
	for i, u := range users {
		out[i] = summary(u)
	}
	return out, nil
}

// List pages through every user, newest first. Used by admins.
func (s *UserService) List(page, size int) (dto.Page[dto.ProfileResponse], error) {
	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return dto.Page[dto.ProfileResponse]{}, fmt.Errorf("failed to count users: %w", err)
	}
	if page < 1 {
		page = 1
	}
	size = pageSize(size, 30)

	var users []models.User
	if err := s.db.Scopes(database.Paginate(page, size)).Order("created_at DESC").Find(&users).Error; err != nil {
		return dto.Page[dto.ProfileResponse]{}, fmt.Errorf("failed to list users: %w", err)
	}
	items := make([]dto.ProfileResponse, len(users))
	for i := range users {
		items[i] = profile(&users[i], true)
	}
	return dto.Page[dto.ProfileResponse]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// DeleteAccount removes the user and everything they own or appear in, in one
// transaction. Sessions the user was seated in promote their next waitlisted
// user.
func (s *UserService) DeleteAccount(userID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := first(tx.Scopes(database.ForUpdate), &user, ErrUserNotFound, "id = ?", userID); err != nil {
			return err
		}

		events, err := pluckIDs(tx, "events", "id", "organizer_id = ?", userID)
		if err != nil {
			return err
		}
		if err := deleteEvents(tx, events); err != nil {
			return err
		}
		sessions, err := pluckIDs(tx, "sessions", "id", "host_id = ?", userID)
		if err != nil {
			return err
		}
		if err := deleteSessions(tx, sessions); err != nil {
			return err
		}
		groups, err := pluckIDs(tx, "groups", "id", "owner_id = ?", userID)
		if err != nil {
			return err
		}
		if err := deleteGroups(tx, groups); err != nil {
			return err
		}

		seated, err := pluckIDs(tx, "session_attendees", "session_id", "user_id = ?", userID)
		if err != nil {
			return err
		}

		err = runSteps(tx, []step{
			{"session attendance", &models.SessionAttendee{}, "user_id = ?", []interface{}{userID}},
			{"session waitlist", &models.SessionWaitlist{}, "user_id = ?", []interface{}{userID}},
			{"session invites", &models.SessionInvite{}, "user_id = ?", []interface{}{userID}},
			{"event attendance", &models.EventAttendee{}, "user_id = ?", []interface{}{userID}},
			{"event invites", &models.EventInvite{}, "user_id = ?", []interface{}{userID}},
			{"group memberships", &models.GroupMember{}, "user_id = ?", []interface{}{userID}},
			{"group join requests", &models.GroupJoinRequest{}, "user_id = ?", []interface{}{userID}},
			{"group invitations", &models.GroupInvitation{}, "invited_user_id = ? OR invited_by_user_id = ?", []interface{}{userID, userID}},
			{"friends", &models.Friend{}, "user_id = ? OR friend_id = ?", []interface{}{userID, userID}},
			{"friend requests", &models.FriendRequest{}, "sender_id = ? OR receiver_id = ?", []interface{}{userID, userID}},
			{"blacklist", &models.Blacklist{}, "user_id = ? OR blacklisted_user_id = ?", []interface{}{userID, userID}},
			{"group blacklist", &models.GroupBlacklist{}, "blacklisted_user_id = ? OR blacklisted_by_user_id = ?", []interface{}{userID, userID}},
			{"event blacklist", &models.EventBlacklist{}, "blacklisted_user_id = ? OR blacklisted_by_user_id = ?", []interface{}{userID, userID}},
		})
		if err != nil {
			return err
		}
		// requests the user answered in groups they did not own stay on record
		if err := tx.Model(&models.GroupJoinRequest{}).Where("responded_by_user_id = ?", userID).
			Update("responded_by_user_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear join request responder: %w", err)
		}

		for _, sessionID := range seated {
			if _, err := promoteNext(tx, sessionID); err != nil {
				return err
			}
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.Error("account deletion failed", "action", "user.delete", "user_id", userID.String(), "error", err.Error())
		}
		return err
	}
	slog.Info("account deleted", "action", "user.delete", "user_id", userID.String())
	return nil
}

func profile(u *models.User, showEmail bool) dto.ProfileResponse {
	p := dto.ProfileResponse{
		ID:               u.ID,
		DisplayName:      u.DisplayName,
		AvatarURL:        u.AvatarURL,
		PreferredAreas:   u.PreferredAreas,
		GamePreferences:  u.GamePreferences,
		WillingToHost:    u.WillingToHost,
		IsProfilePublic:  u.IsProfilePublic,
		AttendedSessions: u.AttendedSessions,
		HostedSessions:   u.HostedSessions,
		CreatedAt:        u.CreatedAt,
	}
	if p.PreferredAreas == nil {
		p.PreferredAreas = []string{}
	}
	if p.GamePreferences == nil {
		p.GamePreferences = []string{}
	}
	if showEmail {
		p.Email = u.Email
	}
	return p
}
