package models

import (
	"database/sql"
	"time"
)

// User represents an account of the social application
type User struct {
	ID              int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Username        string         `gorm:"type:varchar(80);not null;unique;column:username"`
	Email           string         `gorm:"type:varchar(120);not null;unique;column:email"`
	Password        string         `gorm:"type:varchar(250);not null;column:password"`
	FirstName       sql.NullString `gorm:"type:varchar(80);column:first_name"`
	LastName        sql.NullString `gorm:"type:varchar(80);column:last_name"`
	Bio             sql.NullString `gorm:"type:text;column:bio"`
	ProfileImageURL sql.NullString `gorm:"type:varchar(250);column:profile_image_url"`
	CreatedAt       time.Time      `gorm:"not null;column:created_at"`
	IsActive        sql.NullBool   `gorm:"default:true;column:is_active"`

	// Relationships
	Posts            []Post          `gorm:"foreignKey:UserID;references:ID"`
	Comments         []Comment       `gorm:"foreignKey:UserID;references:ID"`
	Likes            []Like          `gorm:"foreignKey:UserID;references:ID"`
	Followers        []Follower      `gorm:"foreignKey:FollowedID;references:ID"`
	Following        []Follower      `gorm:"foreignKey:FollowerID;references:ID"`
	SentMessages     []DirectMessage `gorm:"foreignKey:SenderID;references:ID"`
	ReceivedMessages []DirectMessage `gorm:"foreignKey:ReceiverID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "user"
}

// Active reports the is_active flag; an unset flag counts as active,
// matching the column default.
func (u *User) Active() bool {
	return !u.IsActive.Valid || u.IsActive.Bool
}

func (u User) String() string {
	return "<User " + u.Username + ">"
}
