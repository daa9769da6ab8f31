package models

import (
	"database/sql"
	"strconv"
	"time"
)

// Post represents an image post published by a user
type Post struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64          `gorm:"not null;column:user_id"`
	ImageURL  string         `gorm:"type:varchar(250);not null;column:image_url"`
	Caption   sql.NullString `gorm:"type:text;column:caption"`
	CreatedAt time.Time      `gorm:"not null;column:created_at"`
	Location  sql.NullString `gorm:"type:varchar(100);column:location"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID;references:ID"`
	Comments []Comment `gorm:"foreignKey:PostID;references:ID"`
	Likes    []Like    `gorm:"foreignKey:PostID;references:ID"`
	Tags     []Tag     `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "post"
}

func (p Post) String() string {
	return "<Post " + strconv.FormatInt(p.ID, 10) + ">"
}

// PostTag is a row of the post_tags association table. It is only used to
// query the join table directly; the relationship itself is declared on
// Post.Tags and Tag.Posts.
type PostTag struct {
	PostID int64 `gorm:"primaryKey;column:post_id"`
	TagID  int64 `gorm:"primaryKey;column:tag_id"`
}

// TableName specifies the table name for PostTag
func (PostTag) TableName() string {
	return PostTagsTable
}

// PostTagsTable is the association table between posts and tags
const PostTagsTable = "post_tags"
