package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is the local profile for an identity issued by the external auth provider.
// The row is provisioned on first authenticated request and keyed by the token subject.
type User struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string                      `gorm:"size:255;index" json:"email,omitempty"`
	DisplayName      string                      `gorm:"size:100;not null" json:"display_name"`
	AvatarURL        string                      `gorm:"size:500" json:"avatar_url,omitempty"`
	PreferredAreas   datatypes.JSONSlice[string] `json:"preferred_areas"`
	GamePreferences  datatypes.JSONSlice[string] `json:"game_preferences"`
	WillingToHost    bool                        `gorm:"not null" json:"willing_to_host"`
	IsProfilePublic  bool                        `gorm:"not null" json:"is_profile_public"`
	Role             string                      `gorm:"size:20;not null" json:"role"`
	AttendedSessions int                         `gorm:"not null" json:"attended_sessions"`
	HostedSessions   int                         `gorm:"not null" json:"hosted_sessions"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
