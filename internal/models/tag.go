package models

// Tag is a label attached to posts through post_tags
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"type:varchar(100);not null;unique;column:name"`

	// Relationships
	Posts []Post `gorm:"many2many:post_tags;joinForeignKey:TagID;joinReferences:PostID"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tag"
}

func (t Tag) String() string {
	return "<Tag " + t.Name + ">"
}
