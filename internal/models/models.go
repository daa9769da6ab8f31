// Package models declares the persisted entities of the social schema.
package models

// All returns one zero value of every entity in declaration order. The
// post_tags association table is implied by Post.Tags and Tag.Posts.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Like{},
		&Follower{},
		&Tag{},
		&DirectMessage{},
	}
}
