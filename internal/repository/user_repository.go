package repository

import (
	"blogapi/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	userColumns       = `user_id, name, email, password_hash, avatar, posts, created_at, updated_at`
	publicUserColumns = `user_id, name, email, avatar, posts, created_at, updated_at`
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (user_id, name, email, password_hash, avatar, posts, created_at, updated_at)
		VALUES (:user_id, :name, :email, :password_hash, :avatar, :posts, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}

	return &user, nil
}

// ListUsers never selects the password hash.
func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}

	query := `SELECT ` + publicUserColumns + ` FROM users ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, updated_at = $4
		WHERE user_id = $5
		RETURNING ` + userColumns

	var updated models.User
	err := r.db.GetContext(ctx, &updated, query, user.Name, user.Email, user.PasswordHash, time.Now(), user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", user.UserID, ErrNotFound)
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return &updated, nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error) {
	query := `
		UPDATE users
		SET avatar = $1, updated_at = $2
		WHERE user_id = $3
		RETURNING ` + userColumns

	var updated models.User
	err := r.db.GetContext(ctx, &updated, query, avatar, time.Now(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("error updating avatar: %w", err)
	}

	return &updated, nil
}
