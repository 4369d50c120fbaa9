package service

import (
	"context"
	"testing"

	"socialapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastVote(t *testing.T) {
	ctx := context.Background()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		if id == 1 {
			return &models.Post{ID: 1, OwnerID: 2}, nil
		}
		return nil, nil
	}

	tests := []struct {
		name     string
		in       CastVoteInput
		existing *models.Vote
		wantMsg  string
		wantCode string
		wantText string
	}{
		{
			name:    "add",
			in:      CastVoteInput{UserID: 5, PostID: 1, Dir: VoteAdd},
			wantMsg: MsgVoteAdded,
		},
		{
			name:     "add twice conflicts",
			in:       CastVoteInput{UserID: 5, PostID: 1, Dir: VoteAdd},
			existing: &models.Vote{UserID: 5, PostID: 1},
			wantCode: models.CodeConflict,
			wantText: "user 5 has already voted on post 1",
		},
		{
			name:     "remove",
			in:       CastVoteInput{UserID: 5, PostID: 1, Dir: VoteRemove},
			existing: &models.Vote{UserID: 5, PostID: 1},
			wantMsg:  MsgVoteDeleted,
		},
		{
			name:     "remove missing vote",
			in:       CastVoteInput{UserID: 5, PostID: 1, Dir: VoteRemove},
			wantCode: models.CodeNotFound,
			wantText: "vote does not exist",
		},
		{
			name:     "missing post",
			in:       CastVoteInput{UserID: 5, PostID: 9, Dir: VoteAdd},
			wantCode: models.CodeNotFound,
			wantText: "post with id: 9 does not exist",
		},
		{
			name:     "bad direction",
			in:       CastVoteInput{UserID: 5, PostID: 1, Dir: 2},
			wantCode: models.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voteRepo := noopVoteRepo()
			voteRepo.findFn = func(_ context.Context, _, _ uint) (*models.Vote, error) {
				return tt.existing, nil
			}
			var created *models.Vote
			voteRepo.createFn = func(_ context.Context, v *models.Vote) error {
				created = v
				return nil
			}
			svc := NewVoteService(voteRepo, postRepo)

			msg, err := svc.CastVote(ctx, tt.in)
			if tt.wantCode != "" {
				appErr := assertAppError(t, err, tt.wantCode)
				if tt.wantText != "" {
					assert.Equal(t, tt.wantText, appErr.Message)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
			if tt.in.Dir == VoteAdd {
				require.NotNil(t, created)
				assert.Equal(t, tt.in.UserID, created.UserID)
				assert.Equal(t, tt.in.PostID, created.PostID)
			}
		})
	}
}

func TestCastVote_RaceOnDelete(t *testing.T) {
	voteRepo := noopVoteRepo()
	voteRepo.findFn = func(_ context.Context, u, p uint) (*models.Vote, error) {
		return &models.Vote{UserID: u, PostID: p}, nil
	}
	voteRepo.deleteFn = func(_ context.Context, _, _ uint) (int64, error) { return 0, nil }
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}

	_, err := NewVoteService(voteRepo, postRepo).CastVote(context.Background(), CastVoteInput{UserID: 1, PostID: 1, Dir: VoteRemove})
	assertAppError(t, err, models.CodeNotFound)
}
