package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialapi/internal/auth"
	"socialapi/internal/models"
	"socialapi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, _ uint) (*models.User, error) { return nil, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	getByIDWithVotesFn func(context.Context, uint) (*models.PostWithVotes, error)
	listWithVotesFn    func(context.Context, repository.ListPostsParams) ([]models.PostWithVotes, error)
	createFn           func(context.Context, *models.Post) error
	updateByIDFn       func(context.Context, uint, repository.PostFields) (*models.Post, error)
	deleteByIDFn       func(context.Context, uint) (bool, error)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByIDWithVotes(ctx context.Context, id uint) (*models.PostWithVotes, error) {
	return s.getByIDWithVotesFn(ctx, id)
}
func (s *postRepoStub) ListWithVotes(ctx context.Context, params repository.ListPostsParams) ([]models.PostWithVotes, error) {
	return s.listWithVotesFn(ctx, params)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) UpdateByID(ctx context.Context, id uint, fields repository.PostFields) (*models.Post, error) {
	return s.updateByIDFn(ctx, id, fields)
}
func (s *postRepoStub) DeleteByID(ctx context.Context, id uint) (bool, error) {
	return s.deleteByIDFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		getByIDFn:          func(_ context.Context, _ uint) (*models.Post, error) { return nil, nil },
		getByIDWithVotesFn: func(_ context.Context, _ uint) (*models.PostWithVotes, error) { return nil, nil },
		listWithVotesFn: func(_ context.Context, _ repository.ListPostsParams) ([]models.PostWithVotes, error) {
			return []models.PostWithVotes{}, nil
		},
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		updateByIDFn: func(_ context.Context, _ uint, _ repository.PostFields) (*models.Post, error) {
			return nil, nil
		},
		deleteByIDFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	findFn   func(context.Context, uint, uint) (*models.Vote, error)
	createFn func(context.Context, *models.Vote) error
	deleteFn func(context.Context, uint, uint) (int64, error)
}

func (s *voteRepoStub) Find(ctx context.Context, userID, postID uint) (*models.Vote, error) {
	return s.findFn(ctx, userID, postID)
}
func (s *voteRepoStub) Create(ctx context.Context, vote *models.Vote) error {
	return s.createFn(ctx, vote)
}
func (s *voteRepoStub) Delete(ctx context.Context, userID, postID uint) (int64, error) {
	return s.deleteFn(ctx, userID, postID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		findFn:   func(_ context.Context, _, _ uint) (*models.Vote, error) { return nil, nil },
		createFn: func(_ context.Context, _ *models.Vote) error { return nil },
		deleteFn: func(_ context.Context, _, _ uint) (int64, error) { return 1, nil },
	}
}

func newTestHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:    "service-test-secret",
		Algorithm: "HS256",
		TTL:       30 * time.Minute,
	})
	require.NoError(t, err)
	return tokens
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
