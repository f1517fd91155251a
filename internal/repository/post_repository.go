package repository

import (
	"blogapi/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postColumns = `post_id, title, category, description, creator_id, thumbnail, created_at, updated_at`

// PostFilter narrows Find; empty fields are ignored.
type PostFilter struct {
	Category  string
	CreatorID string
}

// PostSort names the timestamp column posts are ordered by, newest first.
type PostSort string

const (
	SortByCreated PostSort = "created_at"
	SortByUpdated PostSort = "updated_at"
)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

// Create inserts the post and bumps the creator's post counter in one transaction.
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (post_id, title, category, description, creator_id, thumbnail, created_at, updated_at)
		VALUES (:post_id, :title, :category, :description, :creator_id, :thumbnail, :created_at, :updated_at)
	`

	if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}

	if err := adjustPostCount(ctx, tx, post.CreatorID, 1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("error getting post: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) Find(ctx context.Context, filter PostFilter, sortBy PostSort) ([]models.Post, error) {
	if sortBy != SortByCreated && sortBy != SortByUpdated {
		return nil, fmt.Errorf("unsupported sort column %q", sortBy)
	}

	var (
		conditions []string
		args       []interface{}
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.CreatorID != "" {
		args = append(args, filter.CreatorID)
		conditions = append(conditions, fmt.Sprintf("creator_id = $%d", len(args)))
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY ` + string(sortBy) + ` DESC`

	posts := []models.Post{}
	if err := r.DB.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	return posts, nil
}

// Update only touches a post owned by post.CreatorID.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = $1, category = $2, description = $3, thumbnail = $4, updated_at = $5
		WHERE post_id = $6 AND creator_id = $7
		RETURNING ` + postColumns

	var updated models.Post
	err := r.DB.GetContext(ctx, &updated, query,
		post.Title,
		post.Category,
		post.Description,
		post.Thumbnail,
		time.Now(),
		post.PostID,
		post.CreatorID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", post.PostID, ErrNotFound)
		}
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	return &updated, nil
}

// Delete removes a post owned by creatorID and decrements the counter in one transaction.
func (r *PostRepositoryImpl) Delete(ctx context.Context, postID, creatorID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1 AND creator_id = $2`, postID, creatorID)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}

	if err := adjustPostCount(ctx, tx, creatorID, -1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing post deletion: %w", err)
	}

	return nil
}

func adjustPostCount(ctx context.Context, tx *sqlx.Tx, userID string, delta int) error {
	query := `UPDATE users SET posts = GREATEST(posts + $1, 0) WHERE user_id = $2`

	result, err := tx.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("error updating post count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	return nil
}
