package models

import (
	"strconv"
	"time"
)

// Comment represents a comment left by a user on a post
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;column:user_id"`
	PostID    int64     `gorm:"not null;column:post_id"`
	Text      string    `gorm:"type:text;not null;column:text"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comment"
}

func (c Comment) String() string {
	return "<Comment " + strconv.FormatInt(c.ID, 10) + ">"
}
