package services

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/access"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

// GroupJoinRequestService handles requests to enter private groups.
type GroupJoinRequestService struct {
	db *gorm.DB
}

func NewGroupJoinRequestService(db *gorm.DB) *GroupJoinRequestService {
	return &GroupJoinRequestService{db: db}
}

func (s *GroupJoinRequestService) Create(groupID, userID uuid.UUID) (*dto.JoinRequestResponse, error) {
	var req models.GroupJoinRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := first(tx.Scopes(database.ForUpdate), &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
			return err
		}
		if group.Visibility == models.GroupPublic {
			return ErrGroupIsPublic
		}
		if err := checkEligible(tx, groupID, userID); err != nil {
			return err
		}
		pending, err := exists(tx, &models.GroupJoinRequest{}, "group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.RequestPending)
		if err != nil {
			return err
		}
		if pending {
			return ErrRequestPending
		}

		req = models.GroupJoinRequest{ID: uuid.New(), GroupID: groupID, UserID: userID, Status: models.RequestPending}
		if err := tx.Create(&req).Error; err != nil {
			return fmt.Errorf("failed to create join request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("join request created", "action", "group.request", "user_id", userID.String(), "group_id", groupID.String())
	return s.load(req.ID)
}

// checkEligible rejects users already on the roster or barred from the group.
func checkEligible(tx *gorm.DB, groupID, userID uuid.UUID) error {
	member, err := exists(tx, &models.GroupMember{}, "group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}
	barred, err := groupBlacklisted(tx, groupID, userID)
	if err != nil {
		return err
	}
	if barred {
		return access.ErrBlacklisted
	}
	return nil
}

// ListForGroup returns pending requests, oldest first. Admins only.
func (s *GroupJoinRequestService) ListForGroup(groupID, actor uuid.UUID) ([]dto.JoinRequestResponse, error) {
	if _, err := requireGroupAdmin(s.db, groupID, actor); err != nil {
		return nil, err
	}
	return s.list("group_id = ? AND status = ?", groupID, models.RequestPending)
}

func (s *GroupJoinRequestService) ListMine(userID uuid.UUID) ([]dto.JoinRequestResponse, error) {
	return s.list("user_id = ?", userID)
}

func (s *GroupJoinRequestService) list(query string, args ...interface{}) ([]dto.JoinRequestResponse, error) {
	var rows []models.GroupJoinRequest
	if err := s.db.Preload("Group").Preload("User").Where(query, args...).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	out := make([]dto.JoinRequestResponse, len(rows))
	for i, r := range rows {
		out[i] = joinRequestResponse(r)
	}
	return out, nil
}

func (s *GroupJoinRequestService) load(id uuid.UUID) (*dto.JoinRequestResponse, error) {
	var row models.GroupJoinRequest
	if err := first(s.db.Preload("Group").Preload("User"), &row, ErrRequestNotFound, "id = ?", id); err != nil {
		return nil, err
	}
	resp := joinRequestResponse(row)
	return &resp, nil
}

func joinRequestResponse(r models.GroupJoinRequest) dto.JoinRequestResponse {
	return dto.JoinRequestResponse{
		ID:          r.ID,
		GroupID:     r.GroupID,
		GroupName:   r.Group.Name,
		UserID:      r.UserID,
		DisplayName: r.User.DisplayName,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		RespondedAt: r.RespondedAt,
	}
}

// Approve adds the requester to the group.
func (s *GroupJoinRequestService) Approve(requestID, actor uuid.UUID) error {
	return s.respond(requestID, actor, models.RequestApproved)
}

func (s *GroupJoinRequestService) Reject(requestID, actor uuid.UUID) error {
	return s.respond(requestID, actor, models.RequestRejected)
}

func (s *GroupJoinRequestService) respond(requestID, actor uuid.UUID, status models.RequestStatus) error {
	var req models.GroupJoinRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := first(tx.Scopes(database.ForUpdate), &req, ErrRequestNotFound, "id = ?", requestID); err != nil {
			return err
		}
		if _, err := requireGroupAdmin(tx, req.GroupID, actor); err != nil {
			return err
		}
		if req.Status != models.RequestPending {
			return ErrNotPending
		}

		at := now()
		err := tx.Model(&models.GroupJoinRequest{}).Where("id = ?", requestID).Updates(map[string]interface{}{
			"status":               status,
			"responded_at":         at,
			"responded_by_user_id": actor,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update join request: %w", err)
		}
		if status != models.RequestApproved {
			return nil
		}

		member, err := exists(tx, &models.GroupMember{}, "group_id = ? AND user_id = ?", req.GroupID, req.UserID)
		if err != nil || member {
			return err
		}
		return addMember(tx, req.GroupID, req.UserID)
	})
	if err != nil {
		return err
	}
	slog.Info("join request answered", "action", "group.request."+string(status), "user_id", actor.String(), "group_id", req.GroupID.String(), "target_id", req.UserID.String())
	return nil
}
