package models

import (
	"time"

	"github.com/google/uuid"
)

// Blacklist is a global one-directional block recorded by UserID against BlacklistedUserID.
type Blacklist struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blacklists_pair" json:"user_id"`
	BlacklistedUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blacklists_pair;index" json:"blacklisted_user_id"`
	CreatedAt         time.Time `json:"created_at"`

	BlacklistedUser User `gorm:"foreignKey:BlacklistedUserID" json:"-"`
}

type GroupBlacklist struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_blacklists_pair" json:"group_id"`
	BlacklistedUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_blacklists_pair;index" json:"blacklisted_user_id"`
	BlacklistedByUserID uuid.UUID `gorm:"type:uuid;not null" json:"blacklisted_by_user_id"`
	Reason              *string   `gorm:"size:500" json:"reason,omitempty"`
	CreatedAt           time.Time `json:"created_at"`

	BlacklistedUser User `gorm:"foreignKey:BlacklistedUserID" json:"-"`
}

type EventBlacklist struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_blacklists_pair" json:"event_id"`
	BlacklistedUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_blacklists_pair;index" json:"blacklisted_user_id"`
	BlacklistedByUserID uuid.UUID `gorm:"type:uuid;not null" json:"blacklisted_by_user_id"`
	Reason              *string   `gorm:"size:500" json:"reason,omitempty"`
	CreatedAt           time.Time `json:"created_at"`

	BlacklistedUser User `gorm:"foreignKey:BlacklistedUserID" json:"-"`
}
