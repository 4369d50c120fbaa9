package service

import (
	"context"
	"fmt"
	"strings"

	"socialapi/internal/models"
	"socialapi/internal/observability"
	"socialapi/internal/repository"
	"socialapi/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultPostLimit = 10
	MaxPostLimit     = 100

	msgNotAuthorized = "Not authorized to perform requested action"
)

type PostService struct {
	postRepo repository.PostRepository
}

type ListPostsInput struct {
	Limit  int
	Offset int
	Search string
}

// PostInput is the body of create and update requests. Published defaults to true.
type PostInput struct {
	Title     string
	Content   string
	Published *bool
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func postDoesNotExist(id uint) *models.AppError {
	return &models.AppError{
		Code:    models.CodeNotFound,
		Message: fmt.Sprintf("post with id: %d does not exist", id),
	}
}

func (in PostInput) fields() (repository.PostFields, error) {
	if err := validation.ValidatePost(in.Title, in.Content); err != nil {
		return repository.PostFields{}, models.NewValidationError(err.Error())
	}
	title := strings.TrimSpace(in.Title)

	published := true
	if in.Published != nil {
		published = *in.Published
	}
	return repository.PostFields{Title: title, Content: in.Content, Published: published}, nil
}

// ListPosts returns at most MaxPostLimit rows starting at a non-negative offset.
// A limit of 0 is an empty page; a negative one falls back to DefaultPostLimit.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostWithVotes, error) {
	limit := in.Limit
	if limit == 0 {
		return []models.PostWithVotes{}, nil
	}
	if limit < 0 {
		limit = DefaultPostLimit
	}
	if limit > MaxPostLimit {
		limit = MaxPostLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	ctx, span := observability.StartSpan(ctx, "service.PostService.ListPosts",
		attribute.Int("page.limit", limit),
		attribute.Int("page.offset", offset),
	)
	posts, err := s.postRepo.ListWithVotes(ctx, repository.ListPostsParams{
		Limit:  limit,
		Offset: offset,
		Search: in.Search,
	})
	observability.EndSpan(span, err)
	return posts, err
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostWithVotes, error) {
	post, err := s.postRepo.GetByIDWithVotes(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, &models.AppError{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("post with id: %d was not found", id),
		}
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, ownerID uint, in PostInput) (*models.Post, error) {
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     fields.Title,
		Content:   fields.Content,
		Published: fields.Published,
		OwnerID:   ownerID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ownedPost loads the post and checks that userID owns it. A missing post wins over
// a foreign one.
func (s *PostService) ownedPost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, postDoesNotExist(postID)
	}
	if post.OwnerID != userID {
		return nil, models.NewForbiddenError(msgNotAuthorized)
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, in PostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "service.PostService.UpdatePost",
		attribute.Int64("post.id", int64(postID)),
	)
	post, err := s.updatePost(ctx, userID, postID, in)
	observability.EndSpan(span, err)
	return post, err
}

func (s *PostService) updatePost(ctx context.Context, userID, postID uint, in PostInput) (*models.Post, error) {
	if _, err := s.ownedPost(ctx, userID, postID); err != nil {
		return nil, err
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}

	updated, err := s.postRepo.UpdateByID(ctx, postID, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, postDoesNotExist(postID)
	}
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	ctx, span := observability.StartSpan(ctx, "service.PostService.DeletePost",
		attribute.Int64("post.id", int64(postID)),
	)
	err := s.deletePost(ctx, userID, postID)
	observability.EndSpan(span, err)
	return err
}

func (s *PostService) deletePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.ownedPost(ctx, userID, postID); err != nil {
		return err
	}
	_, err := s.postRepo.DeleteByID(ctx, postID)
	return err
}
