package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog is one ERROR+ record persisted by the database log sink.
type SystemLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	RequestID string         `gorm:"size:36;index" json:"request_id"`
	UserID    *string        `gorm:"size:36" json:"user_id"`
	Action    string         `gorm:"size:100" json:"action"`
	Error     string         `gorm:"type:text" json:"error"`
	LatencyMs int            `json:"latency_ms"`
	Extra     datatypes.JSON `json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
}

// All returns every model managed by AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&GroupMember{},
		&GroupJoinRequest{},
		&GroupInvitation{},
		&GroupBlacklist{},
		&Event{},
		&EventAttendee{},
		&EventGroup{},
		&EventInvite{},
		&EventBlacklist{},
		&Session{},
		&SessionAttendee{},
		&SessionWaitlist{},
		&SessionGroup{},
		&SessionInvite{},
		&Blacklist{},
		&Friend{},
		&FriendRequest{},
		&SystemLog{},
	}
}
