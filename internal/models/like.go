package models

import (
	"strconv"
	"time"
)

// Like represents a user liking a post. There is no unique index on
// (user_id, post_id): the same user may like the same post more than once.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;column:user_id"`
	PostID    int64     `gorm:"not null;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "like"
}

func (l Like) String() string {
	return "<Like " + strconv.FormatInt(l.ID, 10) + ">"
}
