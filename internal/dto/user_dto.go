package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email,omitempty"`
	DisplayName      string    `json:"display_name"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	PreferredAreas   []string  `json:"preferred_areas"`
	GamePreferences  []string  `json:"game_preferences"`
	WillingToHost    bool      `json:"willing_to_host"`
	IsProfilePublic  bool      `json:"is_profile_public"`
	AttendedSessions int       `json:"attended_sessions"`
	HostedSessions   int       `json:"hosted_sessions"`
	CreatedAt        time.Time `json:"created_at"`
}

// UpdateProfileRequest leaves fields that are nil untouched.
type UpdateProfileRequest struct {
	DisplayName     *string  `json:"display_name" validate:"omitempty,max=100"`
	AvatarURL       *string  `json:"avatar_url" validate:"omitempty,max=500"`
	PreferredAreas  []string `json:"preferred_areas" validate:"omitempty,max=20,dive,max=100"`
	GamePreferences []string `json:"game_preferences" validate:"omitempty,max=20,dive,max=100"`
	WillingToHost   *bool    `json:"willing_to_host"`
	IsProfilePublic *bool    `json:"is_profile_public"`
}
