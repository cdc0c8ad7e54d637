package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionType string

const (
	SessionStandalone SessionType = "standalone"
	SessionForEvent   SessionType = "event_session"
)

type LocationType string

const (
	LocationHome  LocationType = "home"
	LocationCafe  LocationType = "cafe"
	LocationOther LocationType = "other"
)

type SessionVisibility string

const (
	SessionPublic       SessionVisibility = "public"
	SessionGroupLimited SessionVisibility = "group_limited"
	SessionInviteOnly   SessionVisibility = "invite_only"
)

// Session is a single scheduled play meetup, optionally tied to a parent Event.
type Session struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Title               string            `gorm:"size:200;not null" json:"title"`
	Slug                string            `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	ImageURL            string            `gorm:"size:500" json:"image_url,omitempty"`
	SessionType         SessionType       `gorm:"size:20;not null" json:"session_type"`
	EventID             *uuid.UUID        `gorm:"type:uuid;index" json:"event_id,omitempty"`
	Location            string            `gorm:"size:300;not null" json:"location"`
	LocationType        LocationType      `gorm:"size:20;not null" json:"location_type"`
	StartTime           time.Time         `gorm:"not null;index" json:"start_time"`
	EndTime             *time.Time        `json:"end_time,omitempty"`
	CostPerPerson       *float64          `json:"cost_per_person,omitempty"`
	CostNotes           string            `gorm:"size:500" json:"cost_notes,omitempty"`
	PrimaryGame         string            `gorm:"size:200;not null" json:"primary_game"`
	AdditionalGames     string            `gorm:"size:500" json:"additional_games,omitempty"`
	MinPlayers          int               `gorm:"not null" json:"min_players"`
	MaxPlayers          int               `gorm:"not null" json:"max_players"`
	ReservedSlots       int               `gorm:"not null" json:"reserved_slots"`
	IsHostParticipating bool              `gorm:"not null" json:"is_host_participating"`
	GameTags            string            `gorm:"size:500" json:"game_tags,omitempty"`
	IsNewbieFriendly    bool              `gorm:"not null" json:"is_newbie_friendly"`
	Language            string            `gorm:"size:50;not null" json:"language"`
	AdditionalNotes     string            `gorm:"type:text" json:"additional_notes,omitempty"`
	Visibility          SessionVisibility `gorm:"size:20;not null" json:"visibility"`
	IsCancelled         bool              `gorm:"not null;index" json:"is_cancelled"`
	HostID              uuid.UUID         `gorm:"type:uuid;not null;index" json:"host_id"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// SessionAttendee is an admitted participant. The host is never stored here.
type SessionAttendee struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	DidAttend bool      `gorm:"not null" json:"did_attend"`
	JoinedAt  time.Time `gorm:"not null;index" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// SessionWaitlist holds users queued for a full session, promoted oldest JoinedAt first.
type SessionWaitlist struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	JoinedAt  time.Time `gorm:"not null;index" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type SessionGroup struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"group_id"`
}

type SessionInvite struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
}
