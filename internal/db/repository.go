package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/steemit/socialschema/internal/models"
)

var (
	// ErrDuplicate is returned when an insert violates a unique column
	// (user.username, user.email, tag.name) or the post_tags primary key.
	ErrDuplicate = errors.New("duplicate value violates a unique constraint")

	// ErrMissingReference is returned when a foreign key points at a row
	// that does not exist.
	ErrMissingReference = errors.New("referenced row does not exist")

	// ErrNotFound is returned by updates that matched no row
	ErrNotFound = errors.New("record not found")
)

// translate maps the driver-independent GORM constraint errors onto the
// repository errors. Other errors pass through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrMissingReference, err)
	default:
		return err
	}
}

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// create inserts a single row without touching its associations
func (r *Repository) create(ctx context.Context, value interface{}) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(value).Error)
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.create(ctx, user)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update saves all columns of an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// Create creates a new post. Tags are attached separately with AttachTags.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.create(ctx, post)
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListByUser returns the posts of a user, newest first
func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}

// AttachTags links tags to a post through post_tags. Links that already
// exist are left alone.
func (r *PostRepository) AttachTags(ctx context.Context, postID int64, tagIDs ...int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.PostTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.PostTag{PostID: postID, TagID: tagID})
	}
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error)
}

// Tags returns the tags of a post ordered by name
func (r *PostRepository) Tags(ctx context.Context, postID int64) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Joins(`JOIN post_tags ON post_tags.tag_id = tag.id`).
		Where("post_tags.post_id = ?", postID).
		Order("tag.name").
		Find(&tags).Error
	return tags, err
}

// ListByTag returns the posts carrying the named tag, newest first
func (r *PostRepository) ListByTag(ctx context.Context, name string) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Joins(`JOIN post_tags ON post_tags.post_id = post.id`).
		Joins(`JOIN tag ON tag.id = post_tags.tag_id`).
		Where("tag.name = ?", name).
		Order("post.created_at DESC").Order("post.id DESC").
		Find(&posts).Error
	return posts, err
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.create(ctx, comment)
}

// ListByPost returns the comments on a post in posting order, with authors loaded
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at").Order("id").
		Find(&comments).Error
	return comments, err
}

// ListByUser returns the comments written by a user, newest first
func (r *CommentRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// LikeRepository provides like-related database operations
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Create records a like. Repeated likes by the same user are stored as
// separate rows.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	return r.create(ctx, like)
}

// ListByPost returns the likes on a post in the order they were made
func (r *LikeRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at").Order("id").
		Find(&likes).Error
	return likes, err
}

// CountByPost counts like rows on a post
func (r *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// FollowerRepository provides follow-edge database operations
type FollowerRepository struct {
	*Repository
}

// NewFollowerRepository creates a new follower repository
func NewFollowerRepository(repo *Repository) *FollowerRepository {
	return &FollowerRepository{Repository: repo}
}

// Create stores a follow edge as given; duplicates and self-follows are kept
func (r *FollowerRepository) Create(ctx context.Context, edge *models.Follower) error {
	return r.create(ctx, edge)
}

// Followers returns the distinct users following userID, ordered by id
func (r *FollowerRepository) Followers(ctx context.Context, userID int64) ([]*models.User, error) {
	edges := r.db.Model(&models.Follower{}).Select("follower_id").Where("followed_id = ?", userID)
	return r.users(ctx, edges)
}

// Following returns the distinct users that userID follows, ordered by id
func (r *FollowerRepository) Following(ctx context.Context, userID int64) ([]*models.User, error) {
	edges := r.db.Model(&models.Follower{}).Select("followed_id").Where("follower_id = ?", userID)
	return r.users(ctx, edges)
}

func (r *FollowerRepository) users(ctx context.Context, ids *gorm.DB) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Where("id IN (?)", ids).Order("id").Find(&users).Error
	return users, err
}

// TagRepository provides tag-related database operations
type TagRepository struct {
	*Repository
}

// NewTagRepository creates a new tag repository
func NewTagRepository(repo *Repository) *TagRepository {
	return &TagRepository{Repository: repo}
}

// Create creates a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.create(ctx, tag)
}

// GetByName retrieves a tag by name
func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// MessageRepository provides direct-message database operations
type MessageRepository struct {
	*Repository
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(repo *Repository) *MessageRepository {
	return &MessageRepository{Repository: repo}
}

// Create stores a direct message
func (r *MessageRepository) Create(ctx context.Context, msg *models.DirectMessage) error {
	return r.create(ctx, msg)
}

// Inbox returns messages received by userID, newest first
func (r *MessageRepository) Inbox(ctx context.Context, userID int64) ([]*models.DirectMessage, error) {
	return r.list(ctx, "created_at DESC, id DESC", "receiver_id = ?", userID)
}

// Outbox returns messages sent by userID, newest first
func (r *MessageRepository) Outbox(ctx context.Context, userID int64) ([]*models.DirectMessage, error) {
	return r.list(ctx, "created_at DESC, id DESC", "sender_id = ?", userID)
}

// Conversation returns the messages exchanged between two users in both
// directions, oldest first
func (r *MessageRepository) Conversation(ctx context.Context, a, b int64) ([]*models.DirectMessage, error) {
	return r.list(ctx, "created_at, id",
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
}

func (r *MessageRepository) list(ctx context.Context, order, query string, args ...interface{}) ([]*models.DirectMessage, error) {
	var msgs []*models.DirectMessage
	err := r.db.WithContext(ctx).Where(query, args...).Order(order).Find(&msgs).Error
	return msgs, err
}

// MarkRead sets is_read on a message
func (r *MessageRepository) MarkRead(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&models.DirectMessage{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
