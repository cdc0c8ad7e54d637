package models

import (
	"time"

	"github.com/google/uuid"
)

type GroupVisibility string

const (
	GroupPublic  GroupVisibility = "public"
	GroupPrivate GroupVisibility = "private"
)

type Group struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Description     string          `gorm:"size:1000" json:"description,omitempty"`
	ProfileImageURL string          `gorm:"size:500" json:"profile_image_url,omitempty"`
	CoverImageURL   string          `gorm:"size:500" json:"cover_image_url,omitempty"`
	Visibility      GroupVisibility `gorm:"size:20;not null" json:"visibility"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// GroupMember is a membership row. The owner always holds one with IsAdmin set.
type GroupMember struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	IsAdmin  bool      `gorm:"not null" json:"is_admin"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestDeclined RequestStatus = "declined"
)

// GroupJoinRequest asks a private group's admins for membership.
type GroupJoinRequest struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"group_id"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Status            RequestStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	RespondedAt       *time.Time    `json:"responded_at,omitempty"`
	RespondedByUserID *uuid.UUID    `gorm:"type:uuid" json:"responded_by_user_id,omitempty"`

	Group Group `gorm:"foreignKey:GroupID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

// GroupInvitation is an admin-issued invite into a group.
type GroupInvitation struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"group_id"`
	InvitedUserID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"invited_user_id"`
	InvitedByUserID uuid.UUID     `gorm:"type:uuid;not null" json:"invited_by_user_id"`
	Status          RequestStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	RespondedAt     *time.Time    `json:"responded_at,omitempty"`

	Group       Group `gorm:"foreignKey:GroupID" json:"-"`
	InvitedUser User  `gorm:"foreignKey:InvitedUserID" json:"-"`
	InvitedBy   User  `gorm:"foreignKey:InvitedByUserID" json:"-"`
}
