package models

import (
	"time"

	"github.com/google/uuid"
)

type EventVisibility string

const (
	EventPublic     EventVisibility = "public"
	EventGroupOnly  EventVisibility = "group_only"
	EventInviteOnly EventVisibility = "invite_only"
)

const DefaultEventType = "Open Meetup"

// Event is a larger gathering that may contain sessions. Events never waitlist.
type Event struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name                      string          `gorm:"size:200;not null" json:"name"`
	Slug                      string          `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	ImageURL                  string          `gorm:"size:500" json:"image_url,omitempty"`
	Description               string          `gorm:"type:text" json:"description,omitempty"`
	StartDate                 time.Time       `gorm:"not null;index" json:"start_date"`
	EndDate                   time.Time       `gorm:"not null" json:"end_date"`
	Location                  string          `gorm:"size:300;not null" json:"location"`
	MapLink                   string          `gorm:"size:500" json:"map_link,omitempty"`
	MaxParticipants           *int            `json:"max_participants,omitempty"`
	Price                     *float64        `json:"price,omitempty"`
	DummyAttendeesCount       int             `gorm:"not null;default:0" json:"dummy_attendees_count"`
	DummyAttendeesDescription string          `gorm:"size:500" json:"dummy_attendees_description,omitempty"`
	EventType                 string          `gorm:"size:50;not null" json:"event_type"`
	Visibility                EventVisibility `gorm:"size:20;not null" json:"visibility"`
	IsCancelled               bool            `gorm:"not null;index" json:"is_cancelled"`
	OrganizerID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"organizer_id"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

type EventAttendee struct {
	EventID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type EventGroup struct {
	EventID uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	GroupID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"group_id"`
}

type EventInvite struct {
	EventID uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
}
