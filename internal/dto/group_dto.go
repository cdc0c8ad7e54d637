package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/models"
)

type GroupRequest struct {
	Name            string                 `json:"name" validate:"required,max=100"`
	Description     string                 `json:"description" validate:"max=1000"`
	ProfileImageURL string                 `json:"profile_image_url" validate:"omitempty,url,max=500"`
	CoverImageURL   string                 `json:"cover_image_url" validate:"omitempty,url,max=500"`
	Visibility      models.GroupVisibility `json:"visibility" validate:"required,oneof=public private"`
}

type GroupResponse struct {
	models.Group
	OwnerName   string `json:"owner_name"`
	MemberCount int    `json:"member_count"`
	IsMember    bool   `json:"is_member"`
	IsAdmin     bool   `json:"is_admin"`
	IsOwner     bool   `json:"is_owner"`
}

type MemberResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	JoinedAt    time.Time `json:"joined_at"`
}

type JoinRequestResponse struct {
	ID          uuid.UUID            `json:"id"`
	GroupID     uuid.UUID            `json:"group_id"`
	GroupName   string               `json:"group_name"`
	UserID      uuid.UUID            `json:"user_id"`
	DisplayName string               `json:"display_name"`
	Status      models.RequestStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	RespondedAt *time.Time           `json:"responded_at,omitempty"`
}

type InviteRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

type InvitationResponse struct {
	ID              uuid.UUID            `json:"id"`
	GroupID         uuid.UUID            `json:"group_id"`
	GroupName       string               `json:"group_name"`
	InvitedUserID   uuid.UUID            `json:"invited_user_id"`
	InvitedUserName string               `json:"invited_user_name"`
	InvitedByUserID uuid.UUID            `json:"invited_by_user_id"`
	InvitedByName   string               `json:"invited_by_name"`
	Status          models.RequestStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
	RespondedAt     *time.Time           `json:"responded_at,omitempty"`
}
