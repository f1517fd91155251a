package service

import (
	"blogapi/internal/config"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

const minDescriptionLength = 12

// Upload is a file received with a request.
type Upload struct {
	FileName string
	File     io.Reader
}

type PostRequest struct {
	Title       string
	Category    string
	Description string
}

type PostService interface {
	CreatePost(ctx context.Context, creator models.Identity, req PostRequest, thumbnail Upload) (*models.Post, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	GetCategoryPosts(ctx context.Context, category string) ([]models.Post, error)
	GetUserPosts(ctx context.Context, userID string) ([]models.Post, error)
	EditPost(ctx context.Context, caller models.Identity, postID string, req PostRequest, thumbnail *Upload) (*models.Post, error)
	DeletePost(ctx context.Context, caller models.Identity, postID string) (string, error)
}

type postService struct {
	postRepo repository.PostRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewPostService(postRepo repository.PostRepository, store storage.Storage, cfg *config.Config) PostService {
	return &postService{
		postRepo: postRepo,
		storage:  store,
		cfg:      cfg,
	}
}

func (p *postService) CreatePost(ctx context.Context, creator models.Identity, req PostRequest, thumbnail Upload) (*models.Post, error) {
	if req.Title == "" || req.Category == "" || req.Description == "" || thumbnail.File == nil {
		return nil, models.NewValidationError("Fill in all fields and choose a thumbnail.")
	}

	name, err := p.saveThumbnail(ctx, thumbnail)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		CreatorID:   creator.ID,
		Thumbnail:   name,
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		removeFile(ctx, p.storage, name)
		return nil, &models.AppError{Code: models.CodeValidation, Message: "Post couldn't be created.", Err: err}
	}

	return post, nil
}

func (p *postService) GetPosts(ctx context.Context) ([]models.Post, error) {
	return p.find(ctx, repository.PostFilter{}, repository.SortByUpdated)
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("Post not found.")
		}
		return nil, models.NewInternalError(err)
	}

	return post, nil
}

func (p *postService) GetCategoryPosts(ctx context.Context, category string) ([]models.Post, error) {
	return p.find(ctx, repository.PostFilter{Category: category}, repository.SortByCreated)
}

func (p *postService) GetUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	return p.find(ctx, repository.PostFilter{CreatorID: userID}, repository.SortByCreated)
}

// EditPost lets only the creator edit; anyone else gets the generic
// "Couldn't update post." error rather than a forbidden one.
func (p *postService) EditPost(ctx context.Context, caller models.Identity, postID string, req PostRequest, thumbnail *Upload) (*models.Post, error) {
	if req.Title == "" || req.Category == "" || len(req.Description) < minDescriptionLength {
		return nil, models.NewValidationError("Fill in all fields.")
	}

	existing, err := p.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if existing.CreatorID != caller.ID {
		return nil, models.NewBadRequestError("Couldn't update post.")
	}

	newThumbnail := existing.Thumbnail
	if thumbnail != nil && thumbnail.File != nil {
		newThumbnail, err = p.saveThumbnail(ctx, *thumbnail)
		if err != nil {
			return nil, err
		}
	}

	updated, err := p.postRepo.Update(ctx, &models.Post{
		PostID:      postID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		CreatorID:   caller.ID,
		Thumbnail:   newThumbnail,
	})
	if err != nil {
		if newThumbnail != existing.Thumbnail {
			removeFile(ctx, p.storage, newThumbnail)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewBadRequestError("Couldn't update post.")
		}
		return nil, models.NewInternalError(err)
	}

	if newThumbnail != existing.Thumbnail {
		removeFile(ctx, p.storage, existing.Thumbnail)
	}

	return updated, nil
}

// DeletePost removes the record and counter in the store, then the thumbnail.
func (p *postService) DeletePost(ctx context.Context, caller models.Identity, postID string) (string, error) {
	if postID == "" {
		return "", models.NewBadRequestError("Post unavailable.")
	}

	post, err := p.GetPost(ctx, postID)
	if err != nil {
		return "", err
	}

	if post.CreatorID != caller.ID {
		return "", models.NewForbiddenError("Post couldn't be deleted.")
	}

	if err := p.postRepo.Delete(ctx, postID, caller.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", models.NewNotFoundError("Post not found.")
		}
		return "", models.NewInternalError(err)
	}

	removeFile(ctx, p.storage, post.Thumbnail)

	return fmt.Sprintf("Post %s deleted successfully.", postID), nil
}

func (p *postService) find(ctx context.Context, filter repository.PostFilter, sortBy repository.PostSort) ([]models.Post, error) {
	posts, err := p.postRepo.Find(ctx, filter, sortBy)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return posts, nil
}

func (p *postService) saveThumbnail(ctx context.Context, thumbnail Upload) (string, error) {
	name, err := p.storage.Save(ctx, thumbnail.FileName, thumbnail.File, p.cfg.MaxThumbnailSize)
	if err != nil {
		var tooLarge *storage.FileTooLargeError
		if errors.As(err, &tooLarge) {
			return "", models.NewValidationError(fmt.Sprintf(
				"Thumbnail too big. File should be less than %s.", humanize.Bytes(uint64(tooLarge.Limit))))
		}
		return "", models.NewInternalError(err)
	}

	return name, nil
}
