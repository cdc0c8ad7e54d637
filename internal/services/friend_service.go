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

type FriendService struct {
	db *gorm.DB
}

func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{db: db}
}

// List returns userID's friends, most recent first.
func (s *FriendService) List(userID uuid.UUID) ([]dto.FriendResponse, error) {
	var rows []models.Friend
	if err := s.db.Where("user_id = ? OR friend_id = ?", userID, userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	others := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		others[i] = r.Other(userID)
	}
	users, err := usersByID(s.db, others)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FriendResponse, len(rows))
	for i, r := range rows {
		u := users[others[i]]
		out[i] = dto.FriendResponse{UserID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL, Since: r.CreatedAt}
	}
	return out, nil
}

func (s *FriendService) ListSent(userID uuid.UUID) ([]dto.FriendRequestResponse, error) {
	return s.listRequests("sender_id = ? AND status = ?", userID, models.RequestPending)
}

func (s *FriendService) ListReceived(userID uuid.UUID) ([]dto.FriendRequestResponse, error) {
	return s.listRequests("receiver_id = ? AND status = ?", userID, models.RequestPending)
}

func (s *FriendService) listRequests(query string, args ...interface{}) ([]dto.FriendRequestResponse, error) {
	var rows []models.FriendRequest
	err := s.db.Preload("Sender").Preload("Receiver").Where(query, args...).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	out := make([]dto.FriendRequestResponse, len(rows))
	for i, r := range rows {
		out[i] = friendRequestResponse(r)
	}
	return out, nil
}

func friendRequestResponse(r models.FriendRequest) dto.FriendRequestResponse {
	return dto.FriendRequestResponse{
		ID:           r.ID,
		SenderID:     r.SenderID,
		SenderName:   r.Sender.DisplayName,
		ReceiverID:   r.ReceiverID,
		ReceiverName: r.Receiver.DisplayName,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		RespondedAt:  r.RespondedAt,
	}
}

// Send opens a friend request. Answered requests between the pair are purged
// first so a rejected sender may ask again.
func (s *FriendService) Send(senderID, receiverID uuid.UUID) (*dto.FriendRequestResponse, error) {
	if senderID == receiverID {
		return nil, ErrSelfFriend
	}

	var req models.FriendRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireUser(tx, receiverID); err != nil {
			return err
		}
		if friends, err := areFriends(tx, senderID, receiverID); err != nil || friends {
			if err != nil {
				return err
			}
			return ErrAlreadyFriends
		}

		pair := "((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))"
		pairArgs := []interface{}{senderID, receiverID, receiverID, senderID}
		pending, err := exists(tx, &models.FriendRequest{}, pair+" AND status = ?", append(pairArgs, models.RequestPending)...)
		if err != nil {
			return err
		}
		if pending {
			return ErrRequestPending
		}
		blocked, err := exists(tx, &models.Blacklist{},
			"(user_id = ? AND blacklisted_user_id = ?) OR (user_id = ? AND blacklisted_user_id = ?)", pairArgs...)
		if err != nil {
			return err
		}
		if blocked {
			return ErrBlockedBetween
		}

		if err := tx.Where(pair+" AND status <> ?", append(pairArgs, models.RequestPending)...).Delete(&models.FriendRequest{}).Error; err != nil {
			return fmt.Errorf("failed to clear old friend requests: %w", err)
		}
		req = models.FriendRequest{ID: uuid.New(), SenderID: senderID, ReceiverID: receiverID, Status: models.RequestPending}
		err = tx.Create(&req).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRequestPending
		}
		if err != nil {
			return fmt.Errorf("failed to send friend request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("friend request sent", "action", "friend.request", "user_id", senderID.String(), "target_id", receiverID.String())
	var loaded models.FriendRequest
	if err := first(s.db.Preload("Sender").Preload("Receiver"), &loaded, ErrRequestNotFound, "id = ?", req.ID); err != nil {
		return nil, err
	}
	resp := friendRequestResponse(loaded)
	return &resp, nil
}

// Accept records the friendship. Only the receiver may answer.
func (s *FriendService) Accept(requestID, userID uuid.UUID) error {
	return s.answer(requestID, userID, models.RequestAccepted)
}

func (s *FriendService) Reject(requestID, userID uuid.UUID) error {
	return s.answer(requestID, userID, models.RequestRejected)
}

func (s *FriendService) answer(requestID, userID uuid.UUID, status models.RequestStatus) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var req models.FriendRequest
		if err := first(tx.Scopes(database.ForUpdate), &req, ErrRequestNotFound, "id = ?", requestID); err != nil {
			return err
		}
		if req.ReceiverID != userID {
			return ErrNotRecipient
		}
		if req.Status != models.RequestPending {
			return ErrNotPending
		}

		err := tx.Model(&models.FriendRequest{}).Where("id = ?", requestID).Updates(map[string]interface{}{
			"status":       status,
			"responded_at": now(),
		}).Error
		if err != nil {
			return fmt.Errorf("failed to answer friend request: %w", err)
		}
		if status != models.RequestAccepted {
			return nil
		}

		friends, err := areFriends(tx, req.SenderID, req.ReceiverID)
		if err != nil || friends {
			return err
		}
		if err := tx.Create(&models.Friend{UserID: req.SenderID, FriendID: req.ReceiverID}).Error; err != nil {
			return fmt.Errorf("failed to add friend: %w", err)
		}
		slog.Info("friend request accepted", "action", "friend.accept", "user_id", userID.String(), "target_id", req.SenderID.String())
		return nil
	})
}

// CancelRequest withdraws a pending request. Only the sender may cancel.
func (s *FriendService) CancelRequest(requestID, userID uuid.UUID) error {
	var req models.FriendRequest
	if err := first(s.db, &req, ErrRequestNotFound, "id = ?", requestID); err != nil {
		return err
	}
	if req.SenderID != userID {
		return ErrNotSender
	}
	if req.Status != models.RequestPending {
		return ErrNotPending
	}
	if err := s.db.Delete(&models.FriendRequest{}, "id = ?", requestID).Error; err != nil {
		return fmt.Errorf("failed to cancel friend request: %w", err)
	}
	return nil
}

func (s *FriendService) Remove(userID, friendID uuid.UUID) error {
	a, b := models.OrderedPair(userID, friendID)
	result := s.db.Where("user_id = ? AND friend_id = ?", a, b).Delete(&models.Friend{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove friend: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFriends
	}
	slog.Info("friend removed", "action", "friend.remove", "user_id", userID.String(), "target_id", friendID.String())
	return nil
}

func areFriends(tx *gorm.DB, a, b uuid.UUID) (bool, error) {
	lo, hi := models.OrderedPair(a, b)
	return exists(tx, &models.Friend{}, "user_id = ? AND friend_id = ?", lo, hi)
}
