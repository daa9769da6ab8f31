package models

import (
	"strconv"
	"time"
)

// Follower is a directed follow edge: FollowerID follows FollowedID.
// Duplicate edges and self-follows are not rejected.
type Follower struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	FollowerID int64     `gorm:"not null;column:follower_id"`
	FollowedID int64     `gorm:"not null;column:followed_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followed *User `gorm:"foreignKey:FollowedID;references:ID"`
}

// TableName specifies the table name for Follower
func (Follower) TableName() string {
	return "follower"
}

func (f Follower) String() string {
	return "<Follower " + strconv.FormatInt(f.ID, 10) + ">"
}
