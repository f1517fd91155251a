package service

import (
	"blogapi/internal/config"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
)

type EditUserRequest struct {
	Name               string
	Email              string
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetAuthors(ctx context.Context) ([]models.User, error)
	ChangeAvatar(ctx context.Context, userID string, avatar Upload) (*models.User, error)
	EditUser(ctx context.Context, userID string, req EditUserRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
	hasher   Hasher
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, store storage.Storage, hasher Hasher, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  store,
		hasher:   hasher,
		cfg:      cfg,
	}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("User not found.")
		}
		return nil, models.NewInternalError(err)
	}

	return user, nil
}

func (s *userService) GetAuthors(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

// ChangeAvatar stores the new image, points the user at it, then drops the old one.
func (s *userService) ChangeAvatar(ctx context.Context, userID string, avatar Upload) (*models.User, error) {
	if avatar.File == nil {
		return nil, models.NewValidationError("Please choose an image.")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("User not found.")
		}
		return nil, models.NewInternalError(err)
	}

	name, err := s.storage.Save(ctx, avatar.FileName, avatar.File, s.cfg.MaxAvatarSize)
	if err != nil {
		var tooLarge *storage.FileTooLargeError
		if errors.As(err, &tooLarge) {
			return nil, models.NewValidationError(fmt.Sprintf(
				"Profile picture too big. Should be less than %s.", humanize.Bytes(uint64(tooLarge.Limit))))
		}
		return nil, models.NewInternalError(err)
	}

	updated, err := s.userRepo.UpdateAvatar(ctx, userID, name)
	if err != nil {
		removeFile(ctx, s.storage, name)
		return nil, &models.AppError{Code: models.CodeValidation, Message: "Avatar couldn't be changed.", Err: err}
	}

	if user.Avatar != "" {
		removeFile(ctx, s.storage, user.Avatar)
	}

	return updated, nil
}

func (s *userService) EditUser(ctx context.Context, userID string, req EditUserRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.CurrentPassword == "" || req.NewPassword == "" {
		return nil, models.NewValidationError("Fill in all fields.")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewForbiddenError("User not found.")
		}
		return nil, models.NewInternalError(err)
	}

	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.UserID != userID:
		return nil, models.NewValidationError("Email already exists.")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, models.NewInternalError(err)
	}

	if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		return nil, models.NewValidationError("Invalid current password.")
	}

	if len(strings.TrimSpace(req.NewPassword)) < minPasswordLength {
		return nil, models.NewValidationError("Password should be at least 6 characters.")
	}

	if len(req.NewPassword) > maxPasswordLength {
		return nil, models.NewValidationError("Password should be at most 72 bytes.")
	}

	if req.NewPassword != req.ConfirmNewPassword {
		return nil, models.NewValidationError("New passwords do not match.")
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.Name = req.Name
	user.Email = email
	user.PasswordHash = hashed

	updated, err := s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewForbiddenError("User not found.")
		}
		return nil, models.NewInternalError(err)
	}

	return updated, nil
}

// removeFile is best-effort cleanup; failures leave an orphan and are only logged.
func removeFile(ctx context.Context, store storage.Storage, name string) {
	if err := store.Delete(ctx, name); err != nil {
		slog.WarnContext(ctx, "failed to remove stored file", "file", name, "error", err)
	}
}
