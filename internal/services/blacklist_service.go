package services

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

// BlacklistService manages the global, one-directional user blacklist. An
// entry keeps the blacklisted user out of every session the owner hosts and
// blocks friend requests both ways.
type BlacklistService struct {
	db *gorm.DB
}

func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{db: db}
}

func (s *BlacklistService) List(userID uuid.UUID) ([]dto.BlacklistEntryResponse, error) {
	var rows []models.Blacklist
	if err := s.db.Preload("BlacklistedUser").Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list blacklist: %w", err)
	}
	out := make([]dto.BlacklistEntryResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.BlacklistEntryResponse{
			UserID:      r.BlacklistedUserID,
			DisplayName: r.BlacklistedUser.DisplayName,
			AvatarURL:   r.BlacklistedUser.AvatarURL,
			CreatedAt:   r.CreatedAt,
		}
	}
	return out, nil
}

func (s *BlacklistService) Add(userID, targetID uuid.UUID) error {
	if userID == targetID {
		return ErrSelfBlacklist
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireUser(tx, targetID); err != nil {
			return err
		}
		entry := models.Blacklist{ID: uuid.New(), UserID: userID, BlacklistedUserID: targetID}
		return insertBlacklistEntry(tx, &entry, "user_id = ? AND blacklisted_user_id = ?", userID, targetID)
	})
	if err != nil {
		return err
	}
	slog.Info("user blacklisted", "action", "blacklist.add", "user_id", userID.String(), "target_id", targetID.String())
	return nil
}

func (s *BlacklistService) Remove(userID, targetID uuid.UUID) error {
	return deleteBlacklistEntry(s.db, &models.Blacklist{}, "user_id = ? AND blacklisted_user_id = ?", userID, targetID)
}
