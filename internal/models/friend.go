package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friend is an undirected friendship stored once, with the lower id in UserID.
type Friend struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FriendID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderedPair returns a and b with the lower id first.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// BeforeCreate keeps the pair normalized regardless of caller order.
func (f *Friend) BeforeCreate(tx *gorm.DB) error {
	f.UserID, f.FriendID = OrderedPair(f.UserID, f.FriendID)
	return nil
}

// Other returns the side of the edge that is not userID.
func (f Friend) Other(userID uuid.UUID) uuid.UUID {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

type FriendRequest struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_friend_requests_pair" json:"sender_id"`
	ReceiverID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_friend_requests_pair;index" json:"receiver_id"`
	Status      RequestStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
