package models

import (
	"database/sql"
	"strconv"
	"time"
)

// DirectMessage is a private message from Sender to Receiver
type DirectMessage struct {
	ID         int64        `gorm:"primaryKey;autoIncrement;column:id"`
	SenderID   int64        `gorm:"not null;column:sender_id"`
	ReceiverID int64        `gorm:"not null;column:receiver_id"`
	Text       string       `gorm:"type:text;not null;column:text"`
	CreatedAt  time.Time    `gorm:"not null;column:created_at"`
	IsRead     sql.NullBool `gorm:"default:false;column:is_read"`

	// Relationships
	Sender   *User `gorm:"foreignKey:SenderID;references:ID"`
	Receiver *User `gorm:"foreignKey:ReceiverID;references:ID"`
}

// TableName specifies the table name for DirectMessage
func (DirectMessage) TableName() string {
	return "direct_message"
}

// Read reports whether the receiver has read the message
func (m *DirectMessage) Read() bool {
	return m.IsRead.Valid && m.IsRead.Bool
}

func (m DirectMessage) String() string {
	return "<DirectMessage " + strconv.FormatInt(m.ID, 10) + ">"
}
