package repository

import (
	"context"
	"errors"

	"socialapi/internal/models"

	"gorm.io/gorm"
)

// ListPostsParams filters and pages ListWithVotes.
type ListPostsParams struct {
	Limit  int
	Offset int
	// Search matches posts whose title contains it; empty matches everything.
	Search string
}

// PostFields are the user-editable columns of a post.
type PostFields struct {
	Title     string
	Content   string
	Published bool
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDWithVotes(ctx context.Context, id uint) (*models.PostWithVotes, error)
	ListWithVotes(ctx context.Context, params ListPostsParams) ([]models.PostWithVotes, error)
	Create(ctx context.Context, post *models.Post) error
	UpdateByID(ctx context.Context, id uint, fields PostFields) (*models.Post, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// GetByID returns nil, nil when no post has id.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// withVotes selects posts left-joined to their votes, so unvoted posts count 0.
func (r *postRepository) withVotes(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, COUNT(votes.post_id) AS votes").
		Joins("LEFT OUTER JOIN votes ON votes.post_id = posts.id").
		Group("posts.id")
}

// GetByIDWithVotes returns nil, nil when no post has id.
func (r *postRepository) GetByIDWithVotes(ctx context.Context, id uint) (*models.PostWithVotes, error) {
	var rows []models.PostWithVotes
	if err := r.withVotes(ctx).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListWithVotes pages through posts in id order.
func (r *postRepository) ListWithVotes(ctx context.Context, params ListPostsParams) ([]models.PostWithVotes, error) {
	q := r.withVotes(ctx)
	if params.Search != "" {
		q = q.Where("posts.title LIKE ?", "%"+params.Search+"%")
	}

	rows := []models.PostWithVotes{}
	if err := q.Order("posts.id ASC").Limit(params.Limit).Offset(params.Offset).Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateByID overwrites the editable fields without checking ownership and returns the
// stored row, or nil if the post no longer exists.
func (r *postRepository) UpdateByID(ctx context.Context, id uint, fields PostFields) (*models.Post, error) {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":     fields.Title,
			"content":   fields.Content,
			"published": fields.Published,
		}).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.GetByID(ctx, id)
}

// DeleteByID removes the post and reports true whether or not a row matched.
func (r *postRepository) DeleteByID(ctx context.Context, id uint) (bool, error) {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}
