package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

type GroupInvitationService struct {
	db *gorm.DB
}

func NewGroupInvitationService(db *gorm.DB) *GroupInvitationService {
	return &GroupInvitationService{db: db}
}

// Invite lets a group admin invite a user. Works for public and private groups.
func (s *GroupInvitationService) Invite(groupID, actor, inviteeID uuid.UUID) (*dto.InvitationResponse, error) {
	var inv models.GroupInvitation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := first(tx.Scopes(database.ForUpdate), &models.Group{}, ErrGroupNotFound, "id = ?", groupID); err != nil {
			return err
		}
		if _, err := requireGroupAdmin(tx, groupID, actor); err != nil {
			return err
		}
		if _, err := requireUser(tx, inviteeID); err != nil {
			return err
		}
		if err := checkEligible(tx, groupID, inviteeID); err != nil {
			return err
		}
		pending, err := exists(tx, &models.GroupInvitation{}, "group_id = ? AND invited_user_id = ? AND status = ?", groupID, inviteeID, models.RequestPending)
		if err != nil {
			return err
		}
		if pending {
			return ErrInvitationPending
		}

		inv = models.GroupInvitation{
			ID:              uuid.New(),
			GroupID:         groupID,
			InvitedUserID:   inviteeID,
			InvitedByUserID: actor,
			Status:          models.RequestPending,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("failed to create invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("group invitation sent", "action", "group.invite", "user_id", actor.String(), "group_id", groupID.String(), "target_id", inviteeID.String())
	return s.load(inv.ID)
}

func (s *GroupInvitationService) ListForGroup(groupID, actor uuid.UUID) ([]dto.InvitationResponse, error) {
	if _, err := requireGroupAdmin(s.db, groupID, actor); err != nil {
		return nil, err
	}
	return s.list("group_id = ?", groupID)
}

// ListMine returns the invitations still waiting on userID.
func (s *GroupInvitationService) ListMine(userID uuid.UUID) ([]dto.InvitationResponse, error) {
	return s.list("invited_user_id = ? AND status = ?", userID, models.RequestPending)
}

func (s *GroupInvitationService) list(query string, args ...interface{}) ([]dto.InvitationResponse, error) {
	var rows []models.GroupInvitation
	err := s.db.Preload("Group").Preload("InvitedUser").Preload("InvitedBy").
		Where(query, args...).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	out := make([]dto.InvitationResponse, len(rows))
	for i, r := range rows {
		out[i] = invitationResponse(r)
	}
	return out, nil
}

func (s *GroupInvitationService) load(id uuid.UUID) (*dto.InvitationResponse, error) {
	var row models.GroupInvitation
	if err := first(s.db.Preload("Group").Preload("InvitedUser").Preload("InvitedBy"), &row, ErrInvitationNotFound, "id = ?", id); err != nil {
		return nil, err
	}
	resp := invitationResponse(row)
	return &resp, nil
}

func invitationResponse(r models.GroupInvitation) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:              r.ID,
		GroupID:         r.GroupID,
		GroupName:       r.Group.Name,
		InvitedUserID:   r.InvitedUserID,
		InvitedUserName: r.InvitedUser.DisplayName,
		InvitedByUserID: r.InvitedByUserID,
		InvitedByName:   r.InvitedBy.DisplayName,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		RespondedAt:     r.RespondedAt,
	}
}

// Accept joins the invitee to the group. A blacklist added after the
// invitation was sent still wins.
func (s *GroupInvitationService) Accept(invitationID, userID uuid.UUID) error {
	return s.answer(invitationID, userID, models.RequestAccepted)
}

func (s *GroupInvitationService) Decline(invitationID, userID uuid.UUID) error {
	return s.answer(invitationID, userID, models.RequestDeclined)
}

func (s *GroupInvitationService) answer(invitationID, userID uuid.UUID, status models.RequestStatus) error {
	var inv models.GroupInvitation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := first(tx.Scopes(database.ForUpdate), &inv, ErrInvitationNotFound, "id = ?", invitationID); err != nil {
			return err
		}
		if inv.InvitedUserID != userID {
			return ErrNotRecipient
		}
		if inv.Status != models.RequestPending {
			return ErrNotPending
		}

		if status == models.RequestAccepted {
			err := checkEligible(tx, inv.GroupID, userID)
			if errors.Is(err, ErrAlreadyMember) {
				err = nil
			} else if err == nil {
				err = addMember(tx, inv.GroupID, userID)
			}
			if err != nil {
				return err
			}
		}

		return tx.Model(&models.GroupInvitation{}).Where("id = ?", invitationID).Updates(map[string]interface{}{
			"status":       status,
			"responded_at": now(),
		}).Error
	})
	if err != nil {
		return err
	}
	slog.Info("group invitation answered", "action", "group.invite."+string(status), "user_id", userID.String(), "group_id", inv.GroupID.String())
	return nil
}

// Cancel withdraws a pending invitation. Group admins only.
func (s *GroupInvitationService) Cancel(invitationID, actor uuid.UUID) error {
	var inv models.GroupInvitation
	if err := first(s.db, &inv, ErrInvitationNotFound, "id = ?", invitationID); err != nil {
		return err
	}
	if _, err := requireGroupAdmin(s.db, inv.GroupID, actor); err != nil {
		return err
	}
	if inv.Status != models.RequestPending {
		return ErrNotPending
	}
	if err := s.db.Delete(&models.GroupInvitation{}, "id = ?", invitationID).Error; err != nil {
		return fmt.Errorf("failed to cancel invitation: %w", err)
	}
	return nil
}
