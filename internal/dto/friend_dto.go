package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/models"
)

type FriendResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Since       time.Time `json:"since"`
}

type FriendRequestResponse struct {
	ID           uuid.UUID            `json:"id"`
	SenderID     uuid.UUID            `json:"sender_id"`
	SenderName   string               `json:"sender_name"`
	ReceiverID   uuid.UUID            `json:"receiver_id"`
	ReceiverName string               `json:"receiver_name"`
	Status       models.RequestStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	RespondedAt  *time.Time           `json:"responded_at,omitempty"`
}
