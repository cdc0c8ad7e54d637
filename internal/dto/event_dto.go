package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/models"
)

type EventRequest struct {
	Name                      string                 `json:"name" validate:"required,max=200"`
	ImageURL                  string                 `json:"image_url" validate:"omitempty,url,max=500"`
	Description               string                 `json:"description"`
	StartDate                 time.Time              `json:"start_date" validate:"required"`
	EndDate                   time.Time              `json:"end_date" validate:"required,gtefield=StartDate"`
	Location                  string                 `json:"location" validate:"required,max=300"`
	MapLink                   string                 `json:"map_link" validate:"omitempty,url,max=500"`
	MaxParticipants           *int                   `json:"max_participants" validate:"omitempty,gte=1"`
	Price                     *float64               `json:"price" validate:"omitempty,gte=0"`
	DummyAttendeesCount       int                    `json:"dummy_attendees_count" validate:"gte=0"`
	DummyAttendeesDescription string                 `json:"dummy_attendees_description" validate:"max=500"`
	EventType                 string                 `json:"event_type" validate:"max=50"`
	Visibility                models.EventVisibility `json:"visibility" validate:"required,oneof=public group_only invite_only"`
	GroupIDs                  []uuid.UUID            `json:"group_ids"`
	InvitedUserIDs            []uuid.UUID            `json:"invited_user_ids"`
}

type EventSearchQuery struct {
	From         *time.Time
	To           *time.Time
	Location     string
	EventType    string
	Text         string
	UpcomingOnly bool
	Page         int
	PageSize     int
}

type EventSummary struct {
	models.Event
	OrganizerName   string `json:"organizer_name"`
	AttendeeCount   int    `json:"attendee_count"`
	SessionCount    int    `json:"session_count"`
	AvailableSpaces *int   `json:"available_spaces,omitempty"`
}

type EventResponse struct {
	EventSummary
	GroupIDs        []uuid.UUID `json:"group_ids"`
	IsUserOrganizer bool        `json:"is_user_organizer"`
	IsUserAttending bool        `json:"is_user_attending"`
}

type BlacklistEntryResponse struct {
	UserID              uuid.UUID  `json:"user_id"`
	DisplayName         string     `json:"display_name"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	BlacklistedByUserID *uuid.UUID `json:"blacklisted_by_user_id,omitempty"`
	Reason              *string    `json:"reason,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
