package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/models"
)

type SessionRequest struct {
	Title               string                   `json:"title" validate:"required,max=200"`
	ImageURL            string                   `json:"image_url" validate:"omitempty,url,max=500"`
	SessionType         models.SessionType       `json:"session_type" validate:"required,oneof=standalone event_session"`
	EventID             *uuid.UUID               `json:"event_id"`
	Location            string                   `json:"location" validate:"required,max=300"`
	LocationType        models.LocationType      `json:"location_type" validate:"required,oneof=home cafe other"`
	StartTime           time.Time                `json:"start_time" validate:"required"`
	EndTime             *time.Time               `json:"end_time"`
	CostPerPerson       *float64                 `json:"cost_per_person" validate:"omitempty,gte=0"`
	CostNotes           string                   `json:"cost_notes" validate:"max=500"`
	PrimaryGame         string                   `json:"primary_game" validate:"required,max=200"`
	AdditionalGames     string                   `json:"additional_games" validate:"max=500"`
	MinPlayers          int                      `json:"min_players" validate:"gte=1"`
	MaxPlayers          int                      `json:"max_players" validate:"gte=1,gtefield=MinPlayers"`
	ReservedSlots       int                      `json:"reserved_slots" validate:"gte=0,ltefield=MaxPlayers"`
	IsHostParticipating bool                     `json:"is_host_participating"`
	GameTags            string                   `json:"game_tags" validate:"max=500"`
	IsNewbieFriendly    bool                     `json:"is_newbie_friendly"`
	Language            string                   `json:"language" validate:"max=50"`
	AdditionalNotes     string                   `json:"additional_notes"`
	Visibility          models.SessionVisibility `json:"visibility" validate:"required,oneof=public group_limited invite_only"`
	GroupIDs            []uuid.UUID              `json:"group_ids"`
	InvitedUserIDs      []uuid.UUID              `json:"invited_user_ids"`
}

type SessionSearchQuery struct {
	From           *time.Time
	To             *time.Time
	Location       string
	GameTag        string
	Text           string
	NewbieFriendly *bool
	AvailableOnly  bool
	Page           int
	PageSize       int
}

// SessionSummary is a session as listed in search results and feeds.
type SessionSummary struct {
	models.Session
	HostName       string `json:"host_name"`
	CurrentPlayers int    `json:"current_players"`
	AvailableSlots int    `json:"available_slots"`
}

// SessionResponse is the detail view, with flags relative to the caller.
type SessionResponse struct {
	SessionSummary
	WaitlistCount     int         `json:"waitlist_count"`
	GroupIDs          []uuid.UUID `json:"group_ids"`
	IsUserHost        bool        `json:"is_user_host"`
	IsUserAttending   bool        `json:"is_user_attending"`
	IsUserOnWaitlist  bool        `json:"is_user_on_waitlist"`
	IsUserEventMember bool        `json:"is_user_event_member"`
}

type AttendeeResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	DidAttend   bool      `json:"did_attend"`
	JoinedAt    time.Time `json:"joined_at"`
}

type JoinResponse struct {
	Status string `json:"status"`
}

type LeaveResponse struct {
	Message    string     `json:"message"`
	PromotedID *uuid.UUID `json:"promoted_user_id,omitempty"`
}

type AttendanceRequest struct {
	DidAttend bool `json:"did_attend"`
}
